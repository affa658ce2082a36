package core

import (
	"errors"
)

// ErrUnknownKind is returned for aggregate kinds that have no field descriptor table.
var ErrUnknownKind = errors.New("unknown aggregate kind")

// Kind names an aggregate kind. It is also the prefix or infix of all its event types.
type Kind string

const (
	KindClient      Kind = "Client"
	KindIncident    Kind = "Incident"
	KindLicense     Kind = "License"
	KindOrder       Kind = "Order"
	KindPc          Kind = "Pc"
	KindPrelicense  Kind = "Prelicense"
	KindProduct     Kind = "Product"
	KindProductType Kind = "ProductType"
	KindUser        Kind = "User"
)

var allKinds = []Kind{
	KindClient,
	KindIncident,
	KindLicense,
	KindOrder,
	KindPc,
	KindPrelicense,
	KindProduct,
	KindProductType,
	KindUser,
}

// AllKinds returns every aggregate kind in a stable order.
func AllKinds() []Kind {
	return append([]Kind(nil), allKinds...)
}

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, error) {
	for _, kind := range allKinds {
		if string(kind) == s {
			return kind, nil
		}
	}

	return "", errors.Join(ErrUnknownKind, errors.New(s))
}

// Plural is used in list event types, e.g. "ListClientsRequested".
func (k Kind) Plural() string {
	return string(k) + "s"
}

func (k Kind) String() string {
	return string(k)
}
