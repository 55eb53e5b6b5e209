package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

// SearchRequest describes one query against the remote search endpoint.
type SearchRequest struct {
	Model   string
	Fields  []string
	Domain  Domain
	Order   string
	Limit   int
	GroupBy []string
	Cookie  string
}

// CreateRequest carries the field-value mappings for one create call.
type CreateRequest struct {
	Model  string
	Args   []Record
	Cookie string
}

type ReportRequest struct {
	Report string
	IDs    []int64
	Type   string
	Cookie string
}

// RecordStore is the generic record access protocol. Every named operation
// on Service only shapes requests for it.
type RecordStore interface {
	Search(ctx context.Context, req SearchRequest) ([]Record, error)
	Create(ctx context.Context, req CreateRequest) (Record, error)
	Report(ctx context.Context, req ReportRequest) ([]byte, error)
}

type RecordStoreFactory interface {
	BuildRecordStore(cfg Config, logger Logger, metrics MetricsRecorder) (RecordStore, error)
}

// BinaryPayload is decoded file content handed to the file writing
// collaborator. Path is the suggested target, nothing is written here.
type BinaryPayload struct {
	Name        string
	Path        string
	ContentType string
	Content     []byte
}

type DateRange struct {
	From string
	To   string
}

type DesiredProduct struct {
	SKU      string  `json:"default_code"`
	Name     string  `json:"name,omitempty"`
	Quantity float64 `json:"uom_qty"`
}

type OrderLine struct {
	ProductID int64   `json:"product_id"`
	Quantity  float64 `json:"product_uom_qty"`
	PriceUnit float64 `json:"price_unit"`
	Total     float64 `json:"total"`
}

type PartnerStatus string

const (
	PartnerStatusExisting   PartnerStatus = "existing"
	PartnerStatusCreated    PartnerStatus = "created"
	PartnerStatusUnresolved PartnerStatus = "unresolved"
)

type CreatePartnerInput struct {
	Name  string
	Phone string
	Email string
}

type PartnerResult struct {
	Partner Record        `json:"partner,omitempty"`
	Status  PartnerStatus `json:"status"`
}

type CreateLeadInput struct {
	PartnerID int64
	Summary   string
	Email     string
}

type CreateAttachmentInput struct {
	Name       string
	DataBase64 string
	ResModel   string
	ResID      int64
}

type CreateTicketInput struct {
	PartnerID   int64
	Name        string
	Description string
}

type CustomerTotal struct {
	PartnerID   int64   `json:"partner_id"`
	PartnerName string  `json:"partner_name"`
	AmountTotal float64 `json:"amount_total"`
	Orders      int     `json:"orders"`
}

type ProductSales struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"qty"`
	Revenue     float64 `json:"revenue"`
}

type ActivityStatus string

const (
	ActivityStatusSuccess ActivityStatus = "success"
	ActivityStatusFailure ActivityStatus = "failure"
)

// ActivityEntry is the outcome of one named operation. Record payloads are
// never part of it.
type ActivityEntry struct {
	ID         string         `json:"id"`
	Operation  string         `json:"operation"`
	Model      string         `json:"model,omitempty"`
	Status     ActivityStatus `json:"status"`
	DurationMS int64          `json:"duration_ms"`
	ErrorCode  string         `json:"error_code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

type ActivityFilter struct {
	Operation string
	Status    ActivityStatus
	Since     *time.Time
	Until     *time.Time
	Page      int
	PerPage   int
}

type ActivityPage struct {
	Items      []ActivityEntry `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	HasMore    bool            `json:"has_more"`
	NextOffset int             `json:"next_offset"`
}

type ActivitySink interface {
	Record(ctx context.Context, entry ActivityEntry) error
}

type ActivityReader interface {
	List(ctx context.Context, filter ActivityFilter) (ActivityPage, error)
}

// ERPService is the full set of named operations exposed over the record
// store.
type ERPService interface {
	Search(ctx context.Context, req SearchRequest) ([]Record, error)
	Create(ctx context.Context, model string, values Record) (Record, error)

	GetPartner(ctx context.Context, lookup PartnerLookup) (Record, error)
	CreatePartner(ctx context.Context, input CreatePartnerInput) (PartnerResult, error)
	CreateLead(ctx context.Context, input CreateLeadInput) (Record, error)

	GetProduct(ctx context.Context, lookup ProductLookup, templateFirst bool) (Record, error)
	SearchProductsByName(ctx context.Context, name string) ([]Record, error)
	ListProducts(ctx context.Context) ([]Record, error)
	ProductImages(ctx context.Context, productID int64, sku string) ([]BinaryPayload, error)
	CreateAttachment(ctx context.Context, input CreateAttachmentInput) (Record, error)

	GetCategories(ctx context.Context, lookup CategoryLookup) ([]Record, error)
	DescendantCategoryIDs(ctx context.Context, rootID int64) ([]int64, error)
	ProductsByCategoryID(ctx context.Context, categoryID int64) ([]Record, error)
	ProductsByCategoryName(ctx context.Context, name string) (map[string][]Record, error)

	GetSaleOrders(ctx context.Context, lookup OrderLookup) ([]Record, error)
	SaleOrdersByPartner(ctx context.Context, partnerID int64) ([]Record, error)
	OrdersByDate(ctx context.Context, dates DateRange) ([]Record, error)
	BuildOrderLines(ctx context.Context, desired []DesiredProduct) ([]OrderLine, error)
	CreateSaleOrder(ctx context.Context, partnerID int64, lines []OrderLine) (Record, error)
	CreateSaleOrderFromProducts(ctx context.Context, partnerID int64, desired []DesiredProduct) (Record, error)
	CreateSaleOrderByProductID(ctx context.Context, partnerID int64, productID int64, quantity float64) (Record, error)
	SaleOrderReport(ctx context.Context, orderID int64, raw bool) (BinaryPayload, error)

	PendingInvoices(ctx context.Context, partnerID int64) ([]Record, error)
	TopCustomers(ctx context.Context, dates DateRange, limit int) ([]CustomerTotal, error)
	TopSellingProducts(ctx context.Context, dates DateRange, limit int) ([]ProductSales, error)

	HelpdeskTickets(ctx context.Context, partnerID int64) ([]Record, error)
	CreateHelpdeskTicket(ctx context.Context, input CreateTicketInput) (Record, error)
	ReplenishmentInfo(ctx context.Context, productID int64) ([]Record, error)

	ListActivity(ctx context.Context, filter ActivityFilter) (ActivityPage, error)
}
