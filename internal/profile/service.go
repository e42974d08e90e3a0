package profile

import (
	"context"
	"fmt"

	"lenny/internal/opds"
)

type Service struct {
	loans   LoanCounter
	baseURL string
}

func NewService(loans LoanCounter, baseURL string) *Service {
	return &Service{loans: loans, baseURL: baseURL}
}

// Get builds the profile document for the signed-in patron.
func (s *Service) Get(ctx context.Context, name, email string) (opds.Profile, error) {
	counts, err := s.loans.Counts(ctx, email)
	if err != nil {
		return opds.Profile{}, fmt.Errorf("loan counts: %w", err)
	}
	return opds.NewProfile(name, email, counts, s.baseURL), nil
}
