package service

import (
	"context"
	"strings"

	accountdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/account/domain"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/vat"
	"github.com/Kaisa-Ukkonen/tyoukkoset/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log        *zap.Logger
	GenID      *snowflake.Node
	Repository accountdomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  accountdomain.Repository
}

func NewService(p ServiceParam) accountdomain.Service {
	return &Service{
		log:   p.Log.Named("account.service"),
		genID: p.GenID,
		repo:  p.Repository,
	}
}

func (s *Service) List(ctx context.Context, req accountdomain.ListRequest) ([]accountdomain.Account, error) {
	return s.repo.Find(ctx, req)
}

func (s *Service) GetByID(ctx context.Context, id string) (*accountdomain.Account, error) {
	parsed, err := snowflake.ParseString(id)
	if err != nil {
		return nil, accountdomain.ErrNotFound
	}
	account, err := s.repo.FindByID(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, accountdomain.ErrNotFound
	}
	return account, nil
}

func (s *Service) Create(ctx context.Context, req accountdomain.CreateRequest) (*accountdomain.Account, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, accountdomain.ErrInvalidName
	}
	accountType := accountdomain.AccountType(req.Type)
	if !accountType.Valid() {
		return nil, accountdomain.ErrInvalidType
	}
	handling := req.VatHandling
	if handling == "" {
		handling = vat.HandlingDomestic
	}
	if _, err := vat.Classify(handling, req.VatRate); err != nil {
		return nil, err
	}

	account := &accountdomain.Account{
		ID:             s.genID.Generate(),
		Name:           name,
		Type:           accountType,
		VatHandling:    handling,
		VatRate:        req.VatRate,
		OpeningBalance: req.OpeningBalance,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, accountdomain.ErrDuplicateName
		}
		s.log.Error("create account failed", zap.Error(err))
		return nil, err
	}
	return account, nil
}

func (s *Service) Update(ctx context.Context, id string, req accountdomain.UpdateRequest) (*accountdomain.Account, error) {
	account, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, accountdomain.ErrInvalidName
		}
		account.Name = name
	}
	if req.Type != nil {
		accountType := accountdomain.AccountType(*req.Type)
		if !accountType.Valid() {
			return nil, accountdomain.ErrInvalidType
		}
		account.Type = accountType
	}
	if req.VatHandling != nil {
		if _, err := vat.Classify(*req.VatHandling, account.VatRate); err != nil {
			return nil, err
		}
		account.VatHandling = *req.VatHandling
	}
	if req.VatRate != nil {
		account.VatRate = *req.VatRate
	}
	if req.OpeningBalance != nil {
		account.OpeningBalance = *req.OpeningBalance
	}

	if err := s.repo.Update(ctx, account); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, accountdomain.ErrDuplicateName
		}
		return nil, err
	}
	return account, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	account, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, account.ID)
}

func (s *Service) Balance(ctx context.Context, id string) (*accountdomain.Balance, error) {
	account, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	posted, err := s.repo.SumPostedEntries(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	return &accountdomain.Balance{
		AccountID: account.ID.String(),
		Balance:   account.OpeningBalance + posted,
	}, nil
}
