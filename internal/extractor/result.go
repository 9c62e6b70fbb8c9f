package extractor

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"cargoflow/internal/domain"
)

// Result is the parsed output of one extraction call. It is transient:
// the pipeline persists its pieces onto the queue item but the Result
// itself is never stored.
type Result struct {
	DocumentType string
	Confidence   float64
	Fields       Fields
	Data         map[string]any
	RawText      string
}

// Fields is the typed view of the extracted field map. Every field is
// optional; nil means the model did not find it.
type Fields struct {
	SupplierName     *string
	InvoiceNumber    *string
	InvoiceDate      *time.Time
	DueDate          *time.Time
	Amount           *float64
	Currency         *string
	LotNumber        *string
	ClientName       *string
	CustomsDuty      *float64
	CustomsVAT       *float64
	ContainerLanding *float64
	CargoDues        *float64
	AgencyFee        *float64
	OceanFreightUSD  *float64
	OceanFreightZAR  *float64
	ROE              *float64
	HandoverFee      *float64
	TransportCost    *float64
	GIMSurcharge     *float64
	VesselName       *string
	BLNumber         *string
	ETA              *time.Time
	ContainerNumber  *string
}

// envelope mirrors the JSON shape the extraction prompt asks for.
type envelope struct {
	DocumentType string         `json:"document_type"`
	Confidence   float64        `json:"confidence"`
	Data         map[string]any `json:"data"`
}

// ParseCompletion parses the completion text into a Result. It accepts a
// fenced code block or raw JSON. A completion that cannot be parsed degrades
// to an unknown zero-confidence result; it never returns an error, so a
// chatty model cannot fail the pipeline.
func ParseCompletion(text string) Result {
	stripped := stripFences(text)

	var env envelope
	if err := json.Unmarshal([]byte(stripped), &env); err != nil || env.DocumentType == "" {
		return Result{
			DocumentType: domain.DocTypeUnknown,
			Confidence:   0,
			Data:         map[string]any{},
			RawText:      text,
		}
	}

	if env.Confidence < 0 {
		env.Confidence = 0
	}
	if env.Confidence > 1 {
		env.Confidence = 1
	}
	if env.Data == nil {
		env.Data = map[string]any{}
	}

	return Result{
		DocumentType: env.DocumentType,
		Confidence:   env.Confidence,
		Fields:       coerceFields(env.Data),
		Data:         env.Data,
		RawText:      text,
	}
}

// stripFences removes a surrounding markdown code fence, if present, and
// otherwise trims to the outermost JSON object so leading prose is tolerated.
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		return strings.TrimSpace(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

// coerceFields converts the loosely-typed field map into typed optionals at
// the boundary, so nothing downstream handles raw any values.
func coerceFields(data map[string]any) Fields {
	return Fields{
		SupplierName:     strField(data, "supplier_name"),
		InvoiceNumber:    strField(data, "invoice_number"),
		InvoiceDate:      dateField(data, "invoice_date"),
		DueDate:          dateField(data, "due_date"),
		Amount:           numField(data, "amount"),
		Currency:         strField(data, "currency"),
		LotNumber:        lotField(data),
		ClientName:       strField(data, "client_name"),
		CustomsDuty:      numField(data, "customs_duty"),
		CustomsVAT:       numField(data, "customs_vat"),
		ContainerLanding: numField(data, "container_landing"),
		CargoDues:        numField(data, "cargo_dues"),
		AgencyFee:        numField(data, "agency_fee"),
		OceanFreightUSD:  numField(data, "ocean_freight_usd"),
		OceanFreightZAR:  numField(data, "ocean_freight_zar"),
		ROE:              numField(data, "roe"),
		HandoverFee:      numField(data, "handover_fee"),
		TransportCost:    numField(data, "transport_cost"),
		GIMSurcharge:     numField(data, "gim_surcharge"),
		VesselName:       strField(data, "vessel_name"),
		BLNumber:         strField(data, "bl_number"),
		ETA:              dateField(data, "eta"),
		ContainerNumber:  strField(data, "container_number"),
	}
}

// lotField accepts either lot_number or the lot_reference synonym some
// completions produce. Numbers are accepted too since LOT codes are often
// bare digits.
func lotField(data map[string]any) *string {
	for _, key := range []string{"lot_number", "lot_reference"} {
		if s := strField(data, key); s != nil {
			return s
		}
		if n := numField(data, key); n != nil {
			s := strconv.FormatFloat(*n, 'f', -1, 64)
			return &s
		}
	}
	return nil
}

func strField(data map[string]any, key string) *string {
	v, ok := data[key]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return nil
	}
	return &s
}

func numField(data map[string]any, key string) *float64 {
	v, ok := data[key]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case float64:
		return &t
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "02-01-2006", "02/01/2006"}

func dateField(data map[string]any, key string) *time.Time {
	s := strField(data, key)
	if s == nil {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t
		}
	}
	return nil
}
