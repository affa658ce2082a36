package core

import (
	"strconv"
	"time"
)

// Record is a typed view on an aggregate of one kind.
type Record interface {
	RecordKind() Kind
	RecordID() AggregateIDString
	Attributes() Attributes
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

// parseInt yields 0 for blank or malformed values; attributes are validated on the way in.
func parseInt(s string) int {
	i, _ := strconv.Atoi(s)

	return i
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(DateLayout)
}

func parseDate(s string) time.Time {
	t, _ := time.Parse(DateLayout, s)

	return t
}

/***** Client *****/

// Client is a customer, identified by email.
type Client struct {
	ID      AggregateIDString
	Email   string
	Address string
	Contact string
	Phone   string
}

// ClientFrom converts an aggregate of kind Client.
func ClientFrom(a Aggregate) Client {
	return Client{
		ID:      a.ID,
		Email:   a.Attributes["email"],
		Address: a.Attributes["address"],
		Contact: a.Attributes["contact"],
		Phone:   a.Attributes["phone"],
	}
}

func (r Client) RecordKind() Kind            { return KindClient }
func (r Client) RecordID() AggregateIDString { return r.ID }

func (r Client) Attributes() Attributes {
	return Attributes{"email": r.Email, "address": r.Address, "contact": r.Contact, "phone": r.Phone}
}

/***** Incident *****/

// Incident links a license to the pc it was reported on.
type Incident struct {
	ID        AggregateIDString
	LicenseID AggregateIDString
	PcID      AggregateIDString
}

// IncidentFrom converts an aggregate of kind Incident.
func IncidentFrom(a Aggregate) Incident {
	return Incident{ID: a.ID, LicenseID: a.Attributes["license_id"], PcID: a.Attributes["pc_id"]}
}

func (r Incident) RecordKind() Kind            { return KindIncident }
func (r Incident) RecordID() AggregateIDString { return r.ID }

func (r Incident) Attributes() Attributes {
	return Attributes{"license_id": r.LicenseID, "pc_id": r.PcID}
}

/***** License *****/

// License grants a client the use of a product for Duration days.
type License struct {
	ID        AggregateIDString
	ClientID  AggregateIDString
	ProductID AggregateIDString
	Duration  int
	OrderDate time.Time
}

// LicenseFrom converts an aggregate of kind License.
func LicenseFrom(a Aggregate) License {
	return License{
		ID:        a.ID,
		ClientID:  a.Attributes["client_id"],
		ProductID: a.Attributes["product_id"],
		Duration:  parseInt(a.Attributes["duration"]),
		OrderDate: parseDate(a.Attributes["order_date"]),
	}
}

func (r License) RecordKind() Kind            { return KindLicense }
func (r License) RecordID() AggregateIDString { return r.ID }

func (r License) Attributes() Attributes {
	return Attributes{
		"client_id":  r.ClientID,
		"product_id": r.ProductID,
		"duration":   formatInt(r.Duration),
		"order_date": formatDate(r.OrderDate),
	}
}

/***** Order *****/

// Order is a client's purchase of a product.
type Order struct {
	ID        AggregateIDString
	ClientID  AggregateIDString
	ProductID AggregateIDString
	Duration  int
	OrderDate time.Time
}

// OrderFrom converts an aggregate of kind Order.
func OrderFrom(a Aggregate) Order {
	return Order{
		ID:        a.ID,
		ClientID:  a.Attributes["client_id"],
		ProductID: a.Attributes["product_id"],
		Duration:  parseInt(a.Attributes["duration"]),
		OrderDate: parseDate(a.Attributes["order_date"]),
	}
}

func (r Order) RecordKind() Kind            { return KindOrder }
func (r Order) RecordID() AggregateIDString { return r.ID }

func (r Order) Attributes() Attributes {
	return Attributes{
		"client_id":  r.ClientID,
		"product_id": r.ProductID,
		"duration":   formatInt(r.Duration),
		"order_date": formatDate(r.OrderDate),
	}
}

/***** Pc *****/

// Pc is a machine a product is installed on.
type Pc struct {
	ID               AggregateIDString
	InstallationCode string
}

// PcFrom converts an aggregate of kind Pc.
func PcFrom(a Aggregate) Pc {
	return Pc{ID: a.ID, InstallationCode: a.Attributes["installation_code"]}
}

func (r Pc) RecordKind() Kind            { return KindPc }
func (r Pc) RecordID() AggregateIDString { return r.ID }

func (r Pc) Attributes() Attributes {
	return Attributes{"installation_code": r.InstallationCode}
}

/***** Prelicense *****/

// Prelicense is a floating license of an order, shared by up to Seats installations.
type Prelicense struct {
	ID       AggregateIDString
	OrderID  AggregateIDString
	Seats    int
	Duration int
}

// PrelicenseFrom converts an aggregate of kind Prelicense.
func PrelicenseFrom(a Aggregate) Prelicense {
	return Prelicense{
		ID:       a.ID,
		OrderID:  a.Attributes["order_id"],
		Seats:    parseInt(a.Attributes["seats"]),
		Duration: parseInt(a.Attributes["duration"]),
	}
}

func (r Prelicense) RecordKind() Kind            { return KindPrelicense }
func (r Prelicense) RecordID() AggregateIDString { return r.ID }

func (r Prelicense) Attributes() Attributes {
	return Attributes{"order_id": r.OrderID, "seats": formatInt(r.Seats), "duration": formatInt(r.Duration)}
}

/***** Product *****/

// Product is a released version of a product type.
type Product struct {
	ID             AggregateIDString
	ProductTypeID  AggregateIDString
	ProductVersion string
}

// ProductFrom converts an aggregate of kind Product.
func ProductFrom(a Aggregate) Product {
	return Product{
		ID:             a.ID,
		ProductTypeID:  a.Attributes["product_type_id"],
		ProductVersion: a.Attributes["product_version"],
	}
}

func (r Product) RecordKind() Kind            { return KindProduct }
func (r Product) RecordID() AggregateIDString { return r.ID }

func (r Product) Attributes() Attributes {
	return Attributes{"product_type_id": r.ProductTypeID, "product_version": r.ProductVersion}
}

/***** ProductType *****/

// ProductType is a product line.
type ProductType struct {
	ID      AggregateIDString
	Name    string
	Version string
}

// ProductTypeFrom converts an aggregate of kind ProductType.
func ProductTypeFrom(a Aggregate) ProductType {
	return ProductType{ID: a.ID, Name: a.Attributes["name"], Version: a.Attributes["version"]}
}

func (r ProductType) RecordKind() Kind            { return KindProductType }
func (r ProductType) RecordID() AggregateIDString { return r.ID }

func (r ProductType) Attributes() Attributes {
	return Attributes{"name": r.Name, "version": r.Version}
}

/***** User *****/

// User is an account of the licensing service. Password is sensitive.
type User struct {
	ID       AggregateIDString
	Email    string
	Password string
}

// UserFrom converts an aggregate of kind User.
func UserFrom(a Aggregate) User {
	return User{ID: a.ID, Email: a.Attributes["email"], Password: a.Attributes["password"]}
}

func (r User) RecordKind() Kind            { return KindUser }
func (r User) RecordID() AggregateIDString { return r.ID }

func (r User) Attributes() Attributes {
	return Attributes{"email": r.Email, "password": r.Password}
}

// RecordFrom converts an aggregate into the typed record of its kind.
func RecordFrom(a Aggregate) (Record, error) {
	switch a.Kind {
	case KindClient:
		return ClientFrom(a), nil
	case KindIncident:
		return IncidentFrom(a), nil
	case KindLicense:
		return LicenseFrom(a), nil
	case KindOrder:
		return OrderFrom(a), nil
	case KindPc:
		return PcFrom(a), nil
	case KindPrelicense:
		return PrelicenseFrom(a), nil
	case KindProduct:
		return ProductFrom(a), nil
	case KindProductType:
		return ProductTypeFrom(a), nil
	case KindUser:
		return UserFrom(a), nil
	default:
		_, err := SchemaOf(a.Kind)
		return nil, err
	}
}
