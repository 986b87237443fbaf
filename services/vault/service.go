// Package vault stores portal credentials keyed by client and insurer.
// Passwords live only in sqlite and in a short-lived read cache; List
// never returns them.
package vault

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/qasralsahl/Eligibility-App/lib/timezone"
	"github.com/qasralsahl/Eligibility-App/services/vault/db"
	"github.com/qasralsahl/Eligibility-App/services/verify"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/vault")

type cacheKey struct {
	clientID string
	insurer  string
}

type Service struct {
	db    *sql.DB
	qry   *db.Queries
	cache *expirable.LRU[cacheKey, verify.Credential]
}

func NewService(database *sql.DB) Service {
	return Service{
		db:    database,
		qry:   db.New(database),
		cache: expirable.NewLRU[cacheKey, verify.Credential](2048, nil, time.Minute*15),
	}
}

func key(clientID, insurer string) cacheKey {
	return cacheKey{
		clientID: clientID,
		insurer:  strings.ToLower(insurer),
	}
}

// Set stores or replaces the credential for (clientID, insurer).
func (s Service) Set(ctx context.Context, clientID, insurer string, cred verify.Credential) error {
	ctx, span := tracer.Start(ctx, "Set")
	defer span.End()

	k := key(clientID, insurer)
	err := s.qry.UpsertCredential(ctx, db.UpsertCredentialParams{
		ClientID:  k.clientID,
		Insurer:   k.insurer,
		Username:  cred.Username,
		Password:  cred.Password,
		UpdatedAt: timezone.Now().Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	s.cache.Remove(k)
	return nil
}

// Get returns the stored credential, or nil when none exists.
func (s Service) Get(ctx context.Context, clientID, insurer string) (*verify.Credential, error) {
	ctx, span := tracer.Start(ctx, "Get")
	defer span.End()

	k := key(clientID, insurer)
	if cached, hit := s.cache.Get(k); hit {
		return &cached, nil
	}

	row, err := s.qry.GetCredential(ctx, db.GetCredentialParams{
		ClientID: k.clientID,
		Insurer:  k.insurer,
	})
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	cred := verify.Credential{
		Username: row.Username,
		Password: row.Password,
	}
	s.cache.Add(k, cred)
	return &cred, nil
}

// Entry is a credential row without its password.
type Entry struct {
	ClientID  string
	Insurer   string
	Username  string
	UpdatedAt time.Time
}

func (s Service) List(ctx context.Context) ([]Entry, error) {
	ctx, span := tracer.Start(ctx, "List")
	defer span.End()

	rows, err := s.qry.ListCredentials(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	entries := make([]Entry, len(rows))
	for i, r := range rows {
		entries[i] = Entry{
			ClientID:  r.ClientID,
			Insurer:   r.Insurer,
			Username:  r.Username,
			UpdatedAt: time.Unix(r.UpdatedAt, 0).In(timezone.Location),
		}
	}
	return entries, nil
}

func (s Service) Delete(ctx context.Context, clientID, insurer string) error {
	ctx, span := tracer.Start(ctx, "Delete")
	defer span.End()

	k := key(clientID, insurer)
	err := s.qry.DeleteCredential(ctx, db.DeleteCredentialParams{
		ClientID: k.clientID,
		Insurer:  k.insurer,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	s.cache.Remove(k)
	return nil
}
