package nonce

import (
	"fmt"

	"github.com/hashicorp/go-secure-stdlib/nonceutil"
)

// HashicorpNonceService wraps the hashicorp nonce service. Beyond issuing it
// also supports redeeming, which marks a nonce as used exactly once.
type HashicorpNonceService struct {
	service nonceutil.NonceService
}

func NewHashicorpNonceService() (*HashicorpNonceService, error) {
	service := nonceutil.NewNonceService()
	if err := service.Initialize(); err != nil {
		return nil, fmt.Errorf("unable to initialize nonce service: %w", err)
	}
	return &HashicorpNonceService{service: service}, nil
}

func (s *HashicorpNonceService) Get() (string, error) {
	nonceStr, _, err := s.service.Get()
	if err != nil {
		return "", fmt.Errorf("unable to get nonce: %w", err)
	}
	return nonceStr, nil
}

func (s *HashicorpNonceService) Redeem(nonceStr string) error {
	if !s.service.Redeem(nonceStr) {
		return fmt.Errorf("unknown or already redeemed nonce")
	}
	return nil
}

var _ NonceService = (*HashicorpNonceService)(nil)
