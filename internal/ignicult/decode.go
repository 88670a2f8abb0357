package ignicult

import (
	"encoding/json/v2"
	"fmt"

	"github.com/ignicult/dashboard-server/internal/domain"
	"github.com/ignicult/dashboard-server/internal/validation"
)

// Decoder turns raw upstream payloads into domain values. It is shared by
// the HTTP client and by file-based fixture sources.
type Decoder struct {
	validator *validation.Validator
}

// NewDecoder creates a decoder with its own validator.
func NewDecoder() *Decoder {
	return &Decoder{validator: validation.New()}
}

// TopScores decodes a /activity/top-scores payload.
// An absent or empty data array yields ErrNoData.
func (d *Decoder) TopScores(body []byte) ([]domain.GameBucket, error) {
	var resp topScoresResponse
	if err := d.decodeStruct(body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, ErrNoData
	}

	buckets := make([]domain.GameBucket, len(resp.Data))
	for i := range resp.Data {
		buckets[i] = resp.Data[i].toDomain()
	}
	return buckets, nil
}

// TopGames decodes a /activity/top-games payload.
func (d *Decoder) TopGames(body []byte) ([]domain.TopGame, error) {
	var raw []rawTopGame
	if err := d.decode(body, &raw); err != nil {
		return nil, err
	}
	for i := range raw {
		if err := d.validator.Validate(raw[i]); err != nil {
			return nil, fmt.Errorf("%w: top game %d: %w", ErrMalformed, i, err)
		}
	}

	games := make([]domain.TopGame, len(raw))
	for i, g := range raw {
		games[i] = g.toDomain()
	}
	return games, nil
}

// MonthlyActivity decodes a /activity/totalMonthlyActivity payload for period.
func (d *Decoder) MonthlyActivity(body []byte, period domain.Period) (domain.MonthlyActivity, error) {
	var raw rawMonthlyActivity
	if err := d.decodeStruct(body, &raw); err != nil {
		return domain.MonthlyActivity{}, err
	}
	activity, err := raw.toDomain(period)
	if err != nil {
		return domain.MonthlyActivity{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return activity, nil
}

// WalletCount decodes a /web3-wallets/count payload.
func (d *Decoder) WalletCount(body []byte) (domain.WalletCount, error) {
	var raw rawWalletCount
	if err := d.decodeStruct(body, &raw); err != nil {
		return domain.WalletCount{}, err
	}
	return domain.WalletCount{Count: raw.Count}, nil
}

func (d *Decoder) decode(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: parse response: %w", ErrMalformed, err)
	}
	return nil
}

// decodeStruct unmarshals body into a struct pointer and validates it.
func (d *Decoder) decodeStruct(body []byte, v any) error {
	if err := d.decode(body, v); err != nil {
		return err
	}
	if err := d.validator.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return nil
}
