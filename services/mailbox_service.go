package services

import (
	"context"
	"errors"
	"time"

	"github.com/antivoicemail/go-antivoicemail-server/repository"
	"github.com/antivoicemail/go-antivoicemail-server/types"
)

// MailboxStore is the single-record repository for the one mailbox.
// Create enforces the single-tenant invariant: it fails with ErrConflict when
// any mailbox already exists, no matter whose number it carries.
type MailboxStore interface {
	GetAny(ctx context.Context) (*types.Mailbox, error)
	GetByNumber(ctx context.Context, number string) (*types.Mailbox, error)
	Create(ctx context.Context, mailbox *types.Mailbox) error
	Update(ctx context.Context, mailbox *types.Mailbox) error
	DeleteAll(ctx context.Context) error
}

type MailboxService struct {
	mailboxRepo repository.Repository
}

func NewMailboxService(dbSelector repository.DBSelector) *MailboxService {
	db, err := dbSelector.ChooseDB(repository.Mailbox)
	if err != nil {
		panic(err)
	}
	return &MailboxService{
		mailboxRepo: db,
	}
}

// GetAny returns the mailbox if one exists, ErrNotFound otherwise.
func (ms *MailboxService) GetAny(ctx context.Context) (*types.Mailbox, error) {
	response, err := ms.mailboxRepo.GetAll(ctx, 1, 0)
	if err != nil {
		return nil, err
	}
	var view types.AllDocsView
	if mErr := repository.MapToObject(response, &view); mErr != nil {
		return nil, mErr
	}
	if len(view.Rows) == 0 || view.Rows[0].Doc == nil {
		return nil, types.ErrNotFound
	}
	return view.Rows[0].Doc, nil
}

// GetByNumber returns the mailbox stored under the given E.164 number.
func (ms *MailboxService) GetByNumber(ctx context.Context, number string) (*types.Mailbox, error) {
	response, err := ms.mailboxRepo.GetByID(ctx, number)
	if err != nil {
		return nil, err
	}
	var mailbox types.Mailbox
	if mErr := repository.MapToObject(response, &mailbox); mErr != nil {
		return nil, mErr
	}
	return &mailbox, nil
}

// Create persists a brand new mailbox. The document id is the phone number.
func (ms *MailboxService) Create(ctx context.Context, mailbox *types.Mailbox) error {
	_, err := ms.GetAny(ctx)
	if err == nil {
		return types.ErrConflict
	}
	if !errors.Is(err, types.ErrNotFound) {
		return err
	}
	now := time.Now().UTC().UnixMilli()
	mailbox.UnderscoreID = mailbox.PhoneNumber
	mailbox.Created = now
	mailbox.Modified = now
	return ms.mailboxRepo.Save(ctx, mailbox.PhoneNumber, mailbox)
}

// Update writes back a modified mailbox, carrying the current revision along.
func (ms *MailboxService) Update(ctx context.Context, mailbox *types.Mailbox) error {
	existing, err := ms.GetByNumber(ctx, mailbox.PhoneNumber)
	if err != nil {
		return err
	}
	mailbox.UnderscoreID = existing.UnderscoreID
	mailbox.UnderscoreRev = existing.UnderscoreRev
	mailbox.Modified = time.Now().UTC().UnixMilli()
	return ms.mailboxRepo.Save(ctx, mailbox.PhoneNumber, mailbox)
}

// DeleteAll wipes every mailbox (there is at most one, but a wholesale reset
// must not trust that).
func (ms *MailboxService) DeleteAll(ctx context.Context) error {
	for {
		mailbox, err := ms.GetAny(ctx)
		if errors.Is(err, types.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if dErr := ms.mailboxRepo.Delete(ctx, mailbox.PhoneNumber); dErr != nil {
			return dErr
		}
	}
}
