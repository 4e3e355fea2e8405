package fyers

import (
	"fmt"
	"strings"
)

// OrderType is the broker order type. Encoded on the wire as a number.
type OrderType int

const (
	OrderTypeLimit     OrderType = 1
	OrderTypeMarket    OrderType = 2
	OrderTypeStop      OrderType = 3 // SL-M
	OrderTypeStopLimit OrderType = 4 // SL-L
)

// Side is the order side. Encoded on the wire as 1 (buy) or -1 (sell).
type Side int

const (
	SideBuy  Side = 1
	SideSell Side = -1
)

// ProductType is encoded on the wire as an uppercase string.
type ProductType string

const (
	ProductCNC      ProductType = "CNC"      // equity delivery
	ProductIntraday ProductType = "INTRADAY" // all segments
	ProductMargin   ProductType = "MARGIN"   // derivatives only
	ProductCO       ProductType = "CO"       // cover order
	ProductBO       ProductType = "BO"       // bracket order
	ProductMTF      ProductType = "MTF"      // approved symbols only
)

// Validity is encoded on the wire as an uppercase string.
type Validity string

const (
	ValidityIOC Validity = "IOC"
	ValidityDay Validity = "DAY"
)

// CandleResolution is the candle width requested from the history endpoint.
// The values are the broker's fixed tokens.
type CandleResolution string

const (
	ResolutionDay       CandleResolution = "D"
	ResolutionSeconds5  CandleResolution = "5S"
	ResolutionSeconds10 CandleResolution = "10S"
	ResolutionSeconds15 CandleResolution = "15S"
	ResolutionSeconds30 CandleResolution = "30S"
	ResolutionSeconds45 CandleResolution = "45S"
	ResolutionMinute1   CandleResolution = "1"
	ResolutionMinute2   CandleResolution = "2"
	ResolutionMinute3   CandleResolution = "3"
	ResolutionMinute5   CandleResolution = "5"
	ResolutionMinute10  CandleResolution = "10"
	ResolutionMinute15  CandleResolution = "15"
	ResolutionMinute20  CandleResolution = "20"
	ResolutionMinute30  CandleResolution = "30"
	ResolutionMinute60  CandleResolution = "60"
	ResolutionMinute120 CandleResolution = "120"
	ResolutionMinute240 CandleResolution = "240"
)

var orderTypeNames = map[string]OrderType{
	"limit":     OrderTypeLimit,
	"market":    OrderTypeMarket,
	"stop":      OrderTypeStop,
	"stoplimit": OrderTypeStopLimit,
}

var sideNames = map[string]Side{
	"buy":  SideBuy,
	"sell": SideSell,
}

var productTypes = []ProductType{ProductCNC, ProductIntraday, ProductMargin, ProductCO, ProductBO, ProductMTF}

var validities = []Validity{ValidityIOC, ValidityDay}

var resolutions = []CandleResolution{
	ResolutionDay,
	ResolutionSeconds5, ResolutionSeconds10, ResolutionSeconds15, ResolutionSeconds30, ResolutionSeconds45,
	ResolutionMinute1, ResolutionMinute2, ResolutionMinute3, ResolutionMinute5, ResolutionMinute10,
	ResolutionMinute15, ResolutionMinute20, ResolutionMinute30, ResolutionMinute60, ResolutionMinute120,
	ResolutionMinute240,
}

func (t OrderType) String() string {
	for name, v := range orderTypeNames {
		if v == t {
			return name
		}
	}
	return fmt.Sprintf("ordertype(%d)", int(t))
}

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	}
	return fmt.Sprintf("side(%d)", int(s))
}

// ParseOrderType parses limit, market, stop or stoplimit (case-insensitive).
func ParseOrderType(s string) (OrderType, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "")
	if v, ok := orderTypeNames[name]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("invalid order type %q", s)
}

// ParseSide parses buy or sell (case-insensitive).
func ParseSide(s string) (Side, error) {
	if v, ok := sideNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("invalid side %q", s)
}

// ParseProductType parses a product type name (case-insensitive).
func ParseProductType(s string) (ProductType, error) {
	name := ProductType(strings.ToUpper(strings.TrimSpace(s)))
	for _, p := range productTypes {
		if p == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid product type %q", s)
}

// ParseValidity parses IOC or DAY (case-insensitive).
func ParseValidity(s string) (Validity, error) {
	name := Validity(strings.ToUpper(strings.TrimSpace(s)))
	for _, v := range validities {
		if v == name {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid validity %q", s)
}

// ParseCandleResolution parses a broker resolution token such as D, 5S or 15.
func ParseCandleResolution(s string) (CandleResolution, error) {
	token := CandleResolution(strings.ToUpper(strings.TrimSpace(s)))
	for _, r := range resolutions {
		if r == token {
			return r, nil
		}
	}
	return "", fmt.Errorf("invalid candle resolution %q", s)
}
