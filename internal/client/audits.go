package client

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"accesslens/internal/audit"
)

// ErrAuditNotFound reports an unknown audit id from the server.
var ErrAuditNotFound = errors.New("audit not found")

// AuditRecord is a persisted audit as returned by the server.
type AuditRecord struct {
	AuditID   string        `json:"audit_id"`
	Input     audit.Request `json:"input,omitempty"`
	Results   audit.Result  `json:"results"`
	CreatedAt string        `json:"created_at"`
}

// CreateAudit persists a finished audit and returns its durable identifier.
func (c *Client) CreateAudit(ctx context.Context, in FormInput, results audit.Result) (AuditRecord, error) {
	payload := struct {
		Input   audit.Request `json:"input"`
		Results audit.Result  `json:"results"`
	}{
		Input:   audit.Request{Input: in.formatted(), Context: in.Context},
		Results: results,
	}
	var rec AuditRecord
	if err := c.postJSON(ctx, "/audits", payload, &rec); err != nil {
		return AuditRecord{}, err
	}
	return rec, nil
}

// GetAuditByID fetches a persisted audit.
func (c *Client) GetAuditByID(ctx context.Context, id string) (AuditRecord, error) {
	if id == "" {
		return AuditRecord{}, errors.New("audit id is required")
	}
	var rec AuditRecord
	if err := c.getJSON(ctx, "/audits/"+id, &rec); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == 404 {
			return AuditRecord{}, ErrAuditNotFound
		}
		return AuditRecord{}, err
	}
	return rec, nil
}

// RunAndSave runs an audit and hands the result to the persistence
// collaborator. Persistence failure never blocks the user from seeing their
// results: the in-memory result comes back under a local temporary id.
func (c *Client) RunAndSave(ctx context.Context, in FormInput) (AuditRecord, audit.Result) {
	res := c.RunAudit(ctx, in)
	if res.Error != "" {
		return AuditRecord{}, res
	}
	rec, err := c.CreateAudit(ctx, in, res)
	if err != nil {
		return AuditRecord{
			AuditID:   localAuditID(),
			Results:   res,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		}, res
	}
	return rec, res
}

func localAuditID() string {
	n, _ := rand.Int(rand.Reader, big.NewInt(1e9))
	return fmt.Sprintf("audit_%d_%d", time.Now().UnixMilli(), n.Int64())
}
