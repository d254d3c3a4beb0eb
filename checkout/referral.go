package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/junaidrashid-git/autoparts-api/metrics"
	"github.com/junaidrashid-git/autoparts-api/models"
)

var ErrUnknownReferral = errors.New("unknown referral code")

type ReferralResolver struct {
	marketers MarketerLookup
}

func NewReferralResolver(marketers MarketerLookup) *ReferralResolver {
	return &ReferralResolver{marketers: marketers}
}

// Resolve matches the normalized code against marketer codes exactly.
func (r *ReferralResolver) Resolve(ctx context.Context, code string) (*models.Marketer, error) {
	code = models.NormalizeCode(code)
	if code == "" {
		metrics.ReferralLookups.WithLabelValues("unknown").Inc()
		return nil, ErrUnknownReferral
	}

	m, err := r.marketers.FindMarketerByCode(ctx, code)
	if errors.Is(err, models.ErrNotFound) {
		metrics.ReferralLookups.WithLabelValues("unknown").Inc()
		return nil, ErrUnknownReferral
	}
	if err != nil {
		metrics.ReferralLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("lookup referral %s: %w", code, err)
	}
	metrics.ReferralLookups.WithLabelValues("matched").Inc()
	return m, nil
}
