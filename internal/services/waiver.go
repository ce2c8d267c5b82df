package services

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/losaltoshacks/registration-backend/internal/data/repos"
	types "github.com/losaltoshacks/registration-backend/internal/domain"
	"github.com/losaltoshacks/registration-backend/internal/domain/registrant"
	"github.com/losaltoshacks/registration-backend/internal/domain/waiver"
	"github.com/losaltoshacks/registration-backend/internal/observability"
	"github.com/losaltoshacks/registration-backend/internal/platform/apierr"
	"github.com/losaltoshacks/registration-backend/internal/platform/dbctx"
	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
)

// DocuSignNamespace is the namespace of envelope status callbacks.
const DocuSignNamespace = "http://www.docusign.net/API/3.0"

// WaiverTarget is a registrant table that can record a signed waiver.
type WaiverTarget interface {
	Kind() registrant.Kind
	// SignWaiver marks the current record with email as signed when it is
	// eligible. It returns nil when no current record has that email.
	SignWaiver(dbc dbctx.Context, email string, guardianSigned bool) (*waiver.Match, error)
}

// Envelope is the part of a DocuSign envelope status callback we use.
type Envelope struct {
	ID            string
	Status        string
	SignerEmail   string
	GuardianEmail *string
}

type envelopeInformation struct {
	XMLName xml.Name
	Status  struct {
		EnvelopeID string `xml:"EnvelopeID"`
		Status     string `xml:"Status"`
		Recipients []struct {
			Email string `xml:"Email"`
		} `xml:"RecipientStatuses>RecipientStatus"`
	} `xml:"EnvelopeStatus"`
}

// ParseEnvelope decodes a callback body. Exactly one or two recipients are
// accepted: the signer, then optionally a guardian.
func ParseEnvelope(body []byte) (*Envelope, error) {
	var doc envelopeInformation
	dec := xml.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&doc); err != nil {
		return nil, apierr.MalformedCallback("bad xml")
	}
	if doc.XMLName.Space != DocuSignNamespace || doc.XMLName.Local != "DocuSignEnvelopeInformation" {
		return nil, apierr.MalformedCallback("bad xml")
	}

	emails := make([]string, 0, len(doc.Status.Recipients))
	for _, r := range doc.Status.Recipients {
		emails = append(emails, strings.ToLower(strings.TrimSpace(r.Email)))
	}
	if len(emails) < 1 || len(emails) > 2 || emails[0] == "" {
		return nil, apierr.MalformedCallback("bad xml")
	}

	env := &Envelope{
		ID:          strings.TrimSpace(doc.Status.EnvelopeID),
		Status:      strings.TrimSpace(doc.Status.Status),
		SignerEmail: emails[0],
	}
	if len(emails) == 2 && emails[1] != "" {
		env.GuardianEmail = &emails[1]
	}
	return env, nil
}

type WaiverService interface {
	// HandleCallback applies a raw envelope callback and returns the receipt.
	HandleCallback(ctx context.Context, body []byte) (*types.WaiverReceipt, error)
	Receipts(ctx context.Context, signerEmail string) ([]*types.WaiverReceipt, error)
}

type waiverService struct {
	db       *gorm.DB
	log      *logger.Logger
	receipts repos.WaiverReceiptRepo
	targets  []WaiverTarget
	metrics  *observability.Metrics
	now      func() time.Time
}

func NewWaiverService(db *gorm.DB, baseLog *logger.Logger, receipts repos.WaiverReceiptRepo, metrics *observability.Metrics, targets ...WaiverTarget) WaiverService {
	return &waiverService{
		db:       db,
		log:      baseLog.With("service", "WaiverService"),
		receipts: receipts,
		targets:  targets,
		metrics:  metrics,
		now:      time.Now,
	}
}

func (s *waiverService) HandleCallback(ctx context.Context, body []byte) (*types.WaiverReceipt, error) {
	env, err := ParseEnvelope(body)
	if err != nil {
		s.metrics.IncWaiverCallback("malformed")
		s.log.Warn("waiver callback rejected", "error", err)
		return nil, err
	}
	guardianSigned := env.GuardianEmail != nil

	// Every table and the receipt commit together or not at all.
	var receipt *types.WaiverReceipt
	matches := []waiver.Match{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		for _, t := range s.targets {
			m, err := t.SignWaiver(dbc, env.SignerEmail, guardianSigned)
			if err != nil {
				return fmt.Errorf("sign %s waiver: %w", t.Kind(), err)
			}
			if m != nil {
				matches = append(matches, *m)
			}
		}

		raw, err := json.Marshal(matches)
		if err != nil {
			return fmt.Errorf("encode waiver matches: %w", err)
		}
		receipt = &types.WaiverReceipt{
			EnvelopeID:     env.ID,
			EnvelopeStatus: env.Status,
			SignerEmail:    env.SignerEmail,
			GuardianEmail:  env.GuardianEmail,
			Matches:        datatypes.JSON(raw),
			ReceivedAt:     s.now().UTC(),
		}
		return s.receipts.Create(dbc, receipt)
	})
	if err != nil {
		s.metrics.IncWaiverCallback("error")
		s.log.Error("waiver callback failed", "envelope_id", env.ID, "error", err)
		return nil, err
	}

	outcome := "unmatched"
	if len(matches) > 0 {
		outcome = "matched"
	}
	s.metrics.IncWaiverCallback(outcome)
	s.log.Info("waiver callback processed",
		"envelope_id", env.ID,
		"signer_email", env.SignerEmail,
		"guardian_signed", guardianSigned,
		"matches", len(matches),
	)
	return receipt, nil
}

func (s *waiverService) Receipts(ctx context.Context, signerEmail string) ([]*types.WaiverReceipt, error) {
	return s.receipts.ListBySigner(dbctx.Context{Ctx: ctx}, strings.ToLower(strings.TrimSpace(signerEmail)))
}
