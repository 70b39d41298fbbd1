package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/menu"
)

// Nested structures (external ids, modifier specs, placed options,
// display flags) persist as jsonb columns; the relational shape only
// carries what queries filter on. A column that fails to decode is an
// error, never an empty value: an empty ExternalIDs would read as
// "never pushed" and re-create remote objects.

func marshalJSON(column string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("models: cannot encode %s: %w", column, err)
	}
	return string(data), nil
}

func unmarshalJSON[T any](column, raw string) (T, error) {
	var v T
	if raw == "" {
		return v, nil
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return v, fmt.Errorf("models: corrupt %s column: %w", column, err)
	}
	return v, nil
}

// CategoryModel is the persistence model for the Category aggregate.
type CategoryModel struct {
	AggregateModel
	Name               string                  `gorm:"type:varchar(255);not null"`
	Description        string                  `gorm:"type:text"`
	Subheading         string                  `gorm:"type:text"`
	Footnotes          string                  `gorm:"type:text"`
	Ordinal            int                     `gorm:"not null;default:0"`
	ParentID           *uuid.UUID              `gorm:"type:uuid;index"`
	CallLineName       string                  `gorm:"type:varchar(255)"`
	CallLineDisplay    menu.CallLineDisplay    `gorm:"type:varchar(20)"`
	NestedDisplay      menu.NestedDisplayFlags `gorm:"type:varchar(20)"`
	ServiceDisableJSON string                  `gorm:"type:jsonb;column:service_disable"`
	ExternalIDsJSON    string                  `gorm:"type:jsonb;column:external_ids"`
}

func (CategoryModel) TableName() string { return "menu_categories" }

func (m *CategoryModel) ToDomain() (*menu.Category, error) {
	serviceDisable, err := unmarshalJSON[[]uuid.UUID]("service_disable", m.ServiceDisableJSON)
	if err != nil {
		return nil, err
	}
	externalIDs, err := unmarshalJSON[menu.ExternalIDs]("external_ids", m.ExternalIDsJSON)
	if err != nil {
		return nil, err
	}
	c := &menu.Category{
		Name:            m.Name,
		Description:     m.Description,
		Subheading:      m.Subheading,
		Footnotes:       m.Footnotes,
		Ordinal:         m.Ordinal,
		ParentID:        m.ParentID,
		CallLineName:    m.CallLineName,
		CallLineDisplay: m.CallLineDisplay,
		NestedDisplay:   m.NestedDisplay,
		ServiceDisable:  serviceDisable,
		ExternalIDs:     externalIDs,
	}
	m.PopulateAggregateRoot(&c.BaseAggregateRoot)
	return c, nil
}

func (m *CategoryModel) FromDomain(c *menu.Category) error {
	serviceDisable, err := marshalJSON("service_disable", c.ServiceDisable)
	if err != nil {
		return err
	}
	externalIDs, err := marshalJSON("external_ids", c.ExternalIDs)
	if err != nil {
		return err
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Description = c.Description
	m.Subheading = c.Subheading
	m.Footnotes = c.Footnotes
	m.Ordinal = c.Ordinal
	m.ParentID = c.ParentID
	m.CallLineName = c.CallLineName
	m.CallLineDisplay = c.CallLineDisplay
	m.NestedDisplay = c.NestedDisplay
	m.ServiceDisableJSON = serviceDisable
	m.ExternalIDsJSON = externalIDs
	return nil
}

// ModifierTypeModel is the persistence model for the ModifierType
// aggregate.
type ModifierTypeModel struct {
	AggregateModel
	Name             string `gorm:"type:varchar(255);not null"`
	DisplayName      string `gorm:"type:varchar(255)"`
	Ordinal          int    `gorm:"not null;default:0"`
	MinSelected      int    `gorm:"not null;default:0"`
	MaxSelected      int    `gorm:"not null;default:0"`
	DisplayFlagsJSON string `gorm:"type:jsonb;column:display_flags"`
	ExternalIDsJSON  string `gorm:"type:jsonb;column:external_ids"`
}

func (ModifierTypeModel) TableName() string { return "menu_modifier_types" }

func (m *ModifierTypeModel) ToDomain() (*menu.ModifierType, error) {
	displayFlags, err := unmarshalJSON[menu.ModifierTypeDisplayFlags]("display_flags", m.DisplayFlagsJSON)
	if err != nil {
		return nil, err
	}
	externalIDs, err := unmarshalJSON[menu.ExternalIDs]("external_ids", m.ExternalIDsJSON)
	if err != nil {
		return nil, err
	}
	mt := &menu.ModifierType{
		Name:         m.Name,
		DisplayName:  m.DisplayName,
		Ordinal:      m.Ordinal,
		MinSelected:  m.MinSelected,
		MaxSelected:  m.MaxSelected,
		DisplayFlags: displayFlags,
		ExternalIDs:  externalIDs,
	}
	m.PopulateAggregateRoot(&mt.BaseAggregateRoot)
	return mt, nil
}

func (m *ModifierTypeModel) FromDomain(mt *menu.ModifierType) error {
	displayFlags, err := marshalJSON("display_flags", mt.DisplayFlags)
	if err != nil {
		return err
	}
	externalIDs, err := marshalJSON("external_ids", mt.ExternalIDs)
	if err != nil {
		return err
	}
	m.FromDomainAggregateRoot(mt.BaseAggregateRoot)
	m.Name = mt.Name
	m.DisplayName = mt.DisplayName
	m.Ordinal = mt.Ordinal
	m.MinSelected = mt.MinSelected
	m.MaxSelected = mt.MaxSelected
	m.DisplayFlagsJSON = displayFlags
	m.ExternalIDsJSON = externalIDs
	return nil
}

// ModifierOptionModel is the persistence model for the ModifierOption
// aggregate.
type ModifierOptionModel struct {
	AggregateModel
	ModifierTypeID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	DisplayName      string          `gorm:"type:varchar(255);not null"`
	Description      string          `gorm:"type:text"`
	Shortcode        string          `gorm:"type:varchar(64)"`
	Price            decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Ordinal          int             `gorm:"not null;default:0"`
	MetadataJSON     string          `gorm:"type:jsonb;column:metadata"`
	EnableFuncID     *uuid.UUID      `gorm:"type:uuid;index"`
	DisabledStart    *time.Time
	DisabledEnd      *time.Time
	DisplayFlagsJSON string `gorm:"type:jsonb;column:display_flags"`
	ExternalIDsJSON  string `gorm:"type:jsonb;column:external_ids"`
}

func (ModifierOptionModel) TableName() string { return "menu_modifier_options" }

func (m *ModifierOptionModel) ToDomain() (*menu.ModifierOption, error) {
	metadata, err := unmarshalJSON[menu.OptionMetadata]("metadata", m.MetadataJSON)
	if err != nil {
		return nil, err
	}
	displayFlags, err := unmarshalJSON[menu.OptionDisplayFlags]("display_flags", m.DisplayFlagsJSON)
	if err != nil {
		return nil, err
	}
	externalIDs, err := unmarshalJSON[menu.ExternalIDs]("external_ids", m.ExternalIDsJSON)
	if err != nil {
		return nil, err
	}
	mo := &menu.ModifierOption{
		ModifierTypeID: m.ModifierTypeID,
		DisplayName:    m.DisplayName,
		Description:    m.Description,
		Shortcode:      m.Shortcode,
		Price:          m.Price,
		Ordinal:        m.Ordinal,
		Metadata:       metadata,
		EnableFuncID:   m.EnableFuncID,
		DisplayFlags:   displayFlags,
		ExternalIDs:    externalIDs,
	}
	if m.DisabledStart != nil && m.DisabledEnd != nil {
		mo.Disabled = &menu.DisabledInterval{Start: *m.DisabledStart, End: *m.DisabledEnd}
	}
	m.PopulateAggregateRoot(&mo.BaseAggregateRoot)
	return mo, nil
}

func (m *ModifierOptionModel) FromDomain(mo *menu.ModifierOption) error {
	metadata, err := marshalJSON("metadata", mo.Metadata)
	if err != nil {
		return err
	}
	displayFlags, err := marshalJSON("display_flags", mo.DisplayFlags)
	if err != nil {
		return err
	}
	externalIDs, err := marshalJSON("external_ids", mo.ExternalIDs)
	if err != nil {
		return err
	}
	m.FromDomainAggregateRoot(mo.BaseAggregateRoot)
	m.ModifierTypeID = mo.ModifierTypeID
	m.DisplayName = mo.DisplayName
	m.Description = mo.Description
	m.Shortcode = mo.Shortcode
	m.Price = mo.Price
	m.Ordinal = mo.Ordinal
	m.MetadataJSON = metadata
	m.EnableFuncID = mo.EnableFuncID
	m.DisabledStart, m.DisabledEnd = nil, nil
	if mo.Disabled != nil {
		start, end := mo.Disabled.Start, mo.Disabled.End
		m.DisabledStart, m.DisabledEnd = &start, &end
	}
	m.DisplayFlagsJSON = displayFlags
	m.ExternalIDsJSON = externalIDs
	return nil
}

// ProductModel is the persistence model for the Product aggregate.
type ProductModel struct {
	AggregateModel
	Price              decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DisabledStart      *time.Time
	DisabledEnd        *time.Time
	ServiceDisableJSON string     `gorm:"type:jsonb;column:service_disable"`
	ModifierSpecsJSON  string     `gorm:"type:jsonb;column:modifier_specs"`
	CategoryIDsJSON    string     `gorm:"type:jsonb;column:category_ids"`
	PrinterGroupID     *uuid.UUID `gorm:"type:uuid;index"`
	DisplayFlagsJSON   string     `gorm:"type:jsonb;column:display_flags"`
	TimingJSON         string     `gorm:"type:jsonb;column:timing"`
	ExternalIDsJSON    string     `gorm:"type:jsonb;column:external_ids"`
}

func (ProductModel) TableName() string { return "menu_products" }

func (m *ProductModel) ToDomain() (*menu.Product, error) {
	serviceDisable, err := unmarshalJSON[[]uuid.UUID]("service_disable", m.ServiceDisableJSON)
	if err != nil {
		return nil, err
	}
	modifierSpecs, err := unmarshalJSON[[]menu.ModifierSpec]("modifier_specs", m.ModifierSpecsJSON)
	if err != nil {
		return nil, err
	}
	categoryIDs, err := unmarshalJSON[[]uuid.UUID]("category_ids", m.CategoryIDsJSON)
	if err != nil {
		return nil, err
	}
	displayFlags, err := unmarshalJSON[menu.ProductDisplayFlags]("display_flags", m.DisplayFlagsJSON)
	if err != nil {
		return nil, err
	}
	externalIDs, err := unmarshalJSON[menu.ExternalIDs]("external_ids", m.ExternalIDsJSON)
	if err != nil {
		return nil, err
	}
	p := &menu.Product{
		Price:          m.Price,
		ServiceDisable: serviceDisable,
		ModifierSpecs:  modifierSpecs,
		CategoryIDs:    categoryIDs,
		PrinterGroupID: m.PrinterGroupID,
		DisplayFlags:   displayFlags,
		ExternalIDs:    externalIDs,
	}
	if m.DisabledStart != nil && m.DisabledEnd != nil {
		p.Disabled = &menu.DisabledInterval{Start: *m.DisabledStart, End: *m.DisabledEnd}
	}
	if m.TimingJSON != "" && m.TimingJSON != "null" {
		timing, err := unmarshalJSON[menu.ProductTiming]("timing", m.TimingJSON)
		if err != nil {
			return nil, err
		}
		p.Timing = &timing
	}
	m.PopulateAggregateRoot(&p.BaseAggregateRoot)
	return p, nil
}

func (m *ProductModel) FromDomain(p *menu.Product) error {
	serviceDisable, err := marshalJSON("service_disable", p.ServiceDisable)
	if err != nil {
		return err
	}
	modifierSpecs, err := marshalJSON("modifier_specs", p.ModifierSpecs)
	if err != nil {
		return err
	}
	categoryIDs, err := marshalJSON("category_ids", p.CategoryIDs)
	if err != nil {
		return err
	}
	displayFlags, err := marshalJSON("display_flags", p.DisplayFlags)
	if err != nil {
		return err
	}
	timing, err := marshalJSON("timing", p.Timing)
	if err != nil {
		return err
	}
	externalIDs, err := marshalJSON("external_ids", p.ExternalIDs)
	if err != nil {
		return err
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Price = p.Price
	m.DisabledStart, m.DisabledEnd = nil, nil
	if p.Disabled != nil {
		start, end := p.Disabled.Start, p.Disabled.End
		m.DisabledStart, m.DisabledEnd = &start, &end
	}
	m.ServiceDisableJSON = serviceDisable
	m.ModifierSpecsJSON = modifierSpecs
	m.CategoryIDsJSON = categoryIDs
	m.PrinterGroupID = p.PrinterGroupID
	m.DisplayFlagsJSON = displayFlags
	m.TimingJSON = timing
	m.ExternalIDsJSON = externalIDs
	return nil
}

// ProductInstanceModel is the persistence model for the ProductInstance
// aggregate.
type ProductInstanceModel struct {
	AggregateModel
	ProductID        uuid.UUID `gorm:"type:uuid;not null;index"`
	DisplayName      string    `gorm:"type:varchar(255);not null"`
	Description      string    `gorm:"type:text"`
	Shortcode        string    `gorm:"type:varchar(64)"`
	Ordinal          int       `gorm:"not null;default:0"`
	IsBase           bool      `gorm:"not null;default:false"`
	ModifiersJSON    string    `gorm:"type:jsonb;column:modifiers"`
	DisplayFlagsJSON string    `gorm:"type:jsonb;column:display_flags"`
	ExternalIDsJSON  string    `gorm:"type:jsonb;column:external_ids"`
}

func (ProductInstanceModel) TableName() string { return "menu_product_instances" }

func (m *ProductInstanceModel) ToDomain() (*menu.ProductInstance, error) {
	modifiers, err := unmarshalJSON[[]menu.InstanceModifierEntry]("modifiers", m.ModifiersJSON)
	if err != nil {
		return nil, err
	}
	displayFlags, err := unmarshalJSON[menu.InstanceDisplayFlags]("display_flags", m.DisplayFlagsJSON)
	if err != nil {
		return nil, err
	}
	externalIDs, err := unmarshalJSON[menu.ExternalIDs]("external_ids", m.ExternalIDsJSON)
	if err != nil {
		return nil, err
	}
	pi := &menu.ProductInstance{
		ProductID:    m.ProductID,
		DisplayName:  m.DisplayName,
		Description:  m.Description,
		Shortcode:    m.Shortcode,
		Ordinal:      m.Ordinal,
		IsBase:       m.IsBase,
		Modifiers:    modifiers,
		DisplayFlags: displayFlags,
		ExternalIDs:  externalIDs,
	}
	m.PopulateAggregateRoot(&pi.BaseAggregateRoot)
	return pi, nil
}

func (m *ProductInstanceModel) FromDomain(pi *menu.ProductInstance) error {
	modifiers, err := marshalJSON("modifiers", pi.Modifiers)
	if err != nil {
		return err
	}
	displayFlags, err := marshalJSON("display_flags", pi.DisplayFlags)
	if err != nil {
		return err
	}
	externalIDs, err := marshalJSON("external_ids", pi.ExternalIDs)
	if err != nil {
		return err
	}
	m.FromDomainAggregateRoot(pi.BaseAggregateRoot)
	m.ProductID = pi.ProductID
	m.DisplayName = pi.DisplayName
	m.Description = pi.Description
	m.Shortcode = pi.Shortcode
	m.Ordinal = pi.Ordinal
	m.IsBase = pi.IsBase
	m.ModifiersJSON = modifiers
	m.DisplayFlagsJSON = displayFlags
	m.ExternalIDsJSON = externalIDs
	return nil
}

// InstanceFunctionModel is the persistence model for the
// ProductInstanceFunction aggregate. The expression tree persists in
// its discriminated wire encoding.
type InstanceFunctionModel struct {
	AggregateModel
	Name           string `gorm:"type:varchar(255);not null"`
	ExpressionJSON string `gorm:"type:jsonb;column:expression"`
}

func (InstanceFunctionModel) TableName() string { return "menu_instance_functions" }

func (m *InstanceFunctionModel) ToDomain() (*menu.ProductInstanceFunction, error) {
	expr, err := menu.UnmarshalExpression([]byte(m.ExpressionJSON))
	if err != nil {
		return nil, err
	}
	fn := &menu.ProductInstanceFunction{
		Name:       m.Name,
		Expression: expr,
	}
	m.PopulateAggregateRoot(&fn.BaseAggregateRoot)
	return fn, nil
}

func (m *InstanceFunctionModel) FromDomain(fn *menu.ProductInstanceFunction) error {
	data, err := menu.MarshalExpression(fn.Expression)
	if err != nil {
		return err
	}
	m.FromDomainAggregateRoot(fn.BaseAggregateRoot)
	m.Name = fn.Name
	m.ExpressionJSON = string(data)
	return nil
}

// PrinterGroupModel is the persistence model for the PrinterGroup
// aggregate.
type PrinterGroupModel struct {
	AggregateModel
	Name                string `gorm:"type:varchar(255);not null"`
	SingleItemPerTicket bool   `gorm:"not null;default:false"`
	IsExpo              bool   `gorm:"not null;default:false"`
	ExternalIDsJSON     string `gorm:"type:jsonb;column:external_ids"`
}

func (PrinterGroupModel) TableName() string { return "menu_printer_groups" }

func (m *PrinterGroupModel) ToDomain() (*menu.PrinterGroup, error) {
	externalIDs, err := unmarshalJSON[menu.ExternalIDs]("external_ids", m.ExternalIDsJSON)
	if err != nil {
		return nil, err
	}
	pg := &menu.PrinterGroup{
		Name:                m.Name,
		SingleItemPerTicket: m.SingleItemPerTicket,
		IsExpo:              m.IsExpo,
		ExternalIDs:         externalIDs,
	}
	m.PopulateAggregateRoot(&pg.BaseAggregateRoot)
	return pg, nil
}

func (m *PrinterGroupModel) FromDomain(pg *menu.PrinterGroup) error {
	externalIDs, err := marshalJSON("external_ids", pg.ExternalIDs)
	if err != nil {
		return err
	}
	m.FromDomainAggregateRoot(pg.BaseAggregateRoot)
	m.Name = pg.Name
	m.SingleItemPerTicket = pg.SingleItemPerTicket
	m.IsExpo = pg.IsExpo
	m.ExternalIDsJSON = externalIDs
	return nil
}
