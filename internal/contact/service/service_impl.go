package service

import (
	"context"
	"strings"

	contactdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/contact/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func NewService(p ServiceParam) contactdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("contact.service"),
		genID: p.GenID,
	}
}

func (s *Service) List(ctx context.Context, search string) ([]*contactdomain.Contact, error) {
	var contacts []*contactdomain.Contact
	stmt := s.db.WithContext(ctx).Model(&contactdomain.Contact{}).Order("name ASC")
	if trimmed := strings.TrimSpace(search); trimmed != "" {
		stmt = stmt.Where("name LIKE ?", "%"+trimmed+"%")
	}
	if err := stmt.Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*contactdomain.Contact, error) {
	parsed, err := snowflake.ParseString(id)
	if err != nil {
		return nil, contactdomain.ErrNotFound
	}
	var contact contactdomain.Contact
	if err := s.db.WithContext(ctx).First(&contact, "id = ?", parsed).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, contactdomain.ErrNotFound
		}
		return nil, err
	}
	return &contact, nil
}

func (s *Service) Create(ctx context.Context, req contactdomain.CreateRequest) (*contactdomain.Contact, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, contactdomain.ErrInvalidName
	}
	kind := contactdomain.ContactKind(req.Kind)
	if kind != contactdomain.ContactPerson && kind != contactdomain.ContactCompany {
		kind = contactdomain.ContactPerson
	}

	contact := &contactdomain.Contact{
		ID:              s.genID.Generate(),
		Kind:            kind,
		Name:            name,
		BusinessID:      req.BusinessID,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address,
		PostalCode:      req.PostalCode,
		City:            req.City,
		EInvoiceAddress: req.EInvoiceAddress,
		EInvoiceBroker:  req.EInvoiceBroker,
	}
	if err := s.db.WithContext(ctx).Create(contact).Error; err != nil {
		s.log.Error("create contact failed", zap.Error(err))
		return nil, err
	}
	return contact, nil
}

func (s *Service) Update(ctx context.Context, id string, req contactdomain.UpdateRequest) (*contactdomain.Contact, error) {
	contact, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, contactdomain.ErrInvalidName
		}
		contact.Name = name
	}
	if req.Kind != nil {
		contact.Kind = contactdomain.ContactKind(*req.Kind)
	}
	if req.BusinessID != nil {
		contact.BusinessID = req.BusinessID
	}
	if req.Email != nil {
		contact.Email = req.Email
	}
	if req.Phone != nil {
		contact.Phone = req.Phone
	}
	if req.Address != nil {
		contact.Address = req.Address
	}
	if req.PostalCode != nil {
		contact.PostalCode = req.PostalCode
	}
	if req.City != nil {
		contact.City = req.City
	}
	if req.EInvoiceAddress != nil {
		contact.EInvoiceAddress = req.EInvoiceAddress
	}
	if req.EInvoiceBroker != nil {
		contact.EInvoiceBroker = req.EInvoiceBroker
	}

	if err := s.db.WithContext(ctx).Save(contact).Error; err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	contact, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(contact).Error
}
