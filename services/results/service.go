// Package results keeps the verification history. Each run, failed or
// not, becomes one row; member-policy details are flattened onto
// canonical columns with unmatched labels spilling into a JSON column.
package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/qasralsahl/Eligibility-App/lib/timezone"
	"github.com/qasralsahl/Eligibility-App/services/results/db"
	"github.com/qasralsahl/Eligibility-App/services/verify"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/results")

type Service struct {
	db  *sql.DB
	qry *db.Queries
}

func NewService(database *sql.DB) Service {
	return Service{
		db:  database,
		qry: db.New(database),
	}
}

// Record is one stored verification row.
type Record struct {
	ID           int64
	ClientID     string
	Insurer      string
	EmiratesID   string
	MobileNumber string
	Status       string
	CreatedAt    time.Time

	IsEligible      string
	ReferenceNo     string
	RequestDate     string
	EffectiveFrom   string
	EffectiveTo     string
	EffectiveAt     string
	CoverageDetails string
	Notes           string

	MemberColumns map[string]string
	ExtraDetails  map[string]string
}

// Save stores a completed verification.
func (s Service) Save(ctx context.Context, clientID string, query verify.Query, result *verify.Result) (int64, error) {
	ctx, span := tracer.Start(ctx, "Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("client_id", clientID),
		attribute.String("insurer", result.Insurer),
	)

	columns, extra := flattenMemberPolicy(result.MemberPolicy)

	extraJson := ""
	if len(extra) > 0 {
		buff, err := json.Marshal(extra)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return 0, err
		}
		extraJson = string(buff)
	}

	id, err := s.qry.CreateVerification(ctx, db.CreateVerificationParams{
		ClientID:         clientID,
		Insurer:          result.Insurer,
		EmiratesID:       result.EmiratesID,
		MobileNumber:     query.MobileNumber,
		Status:           result.Status,
		IsEligible:       result.IsEligible,
		ReferenceNo:      result.ReferenceNo,
		RequestDate:      result.RequestDate,
		EffectiveFrom:    result.EffectiveFrom,
		EffectiveTo:      result.EffectiveTo,
		EffectiveAt:      result.EffectiveAt,
		CoverageDetails:  result.CoverageDetails,
		Notes:            result.Notes,
		TpaMemberID:      columns["TPA_Member_ID"],
		EmiratesIDMember: columns["Emirates_ID_Member"],
		DhaMemberID:      columns["DHA_Member_ID"],
		Dob:              columns["DOB"],
		Gender:           columns["Gender"],
		SubGroup:         columns["Sub_Group"],
		Category:         columns["Category"],
		PolicyNumber:     columns["Policy_Number"],
		ClientNumber:     columns["Client_Number"],
		PolicyAuthority:  columns["Policy_Authority"],
		ExtraDetails:     extraJson,
		CreatedAt:        timezone.Now().Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	return id, nil
}

// RecordFailure stores an exhausted verification so the history shows
// the miss alongside the hits.
func (s Service) RecordFailure(ctx context.Context, clientID string, query verify.Query, cause error) (int64, error) {
	ctx, span := tracer.Start(ctx, "RecordFailure")
	defer span.End()

	span.SetAttributes(
		attribute.String("client_id", clientID),
		attribute.String("insurer", query.Insurer),
	)

	id, err := s.qry.CreateVerification(ctx, db.CreateVerificationParams{
		ClientID:     clientID,
		Insurer:      query.Insurer,
		EmiratesID:   query.EmiratesID,
		MobileNumber: query.MobileNumber,
		Status:       verify.StatusError,
		IsEligible:   verify.EligibilityUnknown,
		Notes:        cause.Error(),
		CreatedAt:    timezone.Now().Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	return id, nil
}

func (s Service) List(ctx context.Context, limit int64) ([]Record, error) {
	ctx, span := tracer.Start(ctx, "List")
	defer span.End()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.qry.ListVerifications(ctx, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return toRecords(rows)
}

func (s Service) ListByEmiratesID(ctx context.Context, emiratesID string) ([]Record, error) {
	ctx, span := tracer.Start(ctx, "ListByEmiratesID")
	defer span.End()

	span.SetAttributes(attribute.String("emirates_id", emiratesID))

	rows, err := s.qry.ListVerificationsByEmiratesID(ctx, emiratesID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return toRecords(rows)
}

func toRecords(rows []db.Verification) ([]Record, error) {
	records := make([]Record, len(rows))
	for i, r := range rows {
		extra := map[string]string{}
		if r.ExtraDetails != "" {
			err := json.Unmarshal([]byte(r.ExtraDetails), &extra)
			if err != nil {
				return nil, err
			}
		}

		columns := map[string]string{}
		for canonical, value := range map[string]string{
			"TPA_Member_ID":      r.TpaMemberID,
			"Emirates_ID_Member": r.EmiratesIDMember,
			"DHA_Member_ID":      r.DhaMemberID,
			"DOB":                r.Dob,
			"Gender":             r.Gender,
			"Sub_Group":          r.SubGroup,
			"Category":           r.Category,
			"Policy_Number":      r.PolicyNumber,
			"Client_Number":      r.ClientNumber,
			"Policy_Authority":   r.PolicyAuthority,
		} {
			if value != "" {
				columns[canonical] = value
			}
		}

		records[i] = Record{
			ID:              r.ID,
			ClientID:        r.ClientID,
			Insurer:         r.Insurer,
			EmiratesID:      r.EmiratesID,
			MobileNumber:    r.MobileNumber,
			Status:          r.Status,
			CreatedAt:       time.Unix(r.CreatedAt, 0).In(timezone.Location),
			IsEligible:      r.IsEligible,
			ReferenceNo:     r.ReferenceNo,
			RequestDate:     r.RequestDate,
			EffectiveFrom:   r.EffectiveFrom,
			EffectiveTo:     r.EffectiveTo,
			EffectiveAt:     r.EffectiveAt,
			CoverageDetails: r.CoverageDetails,
			Notes:           r.Notes,
			MemberColumns:   columns,
			ExtraDetails:    extra,
		}
	}
	return records, nil
}
