package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const wildcardPrefix = "*."

// Certificate is one entry of the monitored_certificate_domains list.
type Certificate struct {
	Domain        string     `json:"domain"`         // ex: *.evil.test
	CertificateID FlexString `json:"certificate_id"` // ID of the certificate on the monitoring service
	RegisterDate  FlexString `json:"register_date"`  // ex: 2024-01-01
}

// NormalizedDomain returns the domain with a leading wildcard label removed.
func (c Certificate) NormalizedDomain() string {
	return NormalizeDomain(c.Domain)
}

// Description is the text stored on the observable.
func (c Certificate) Description() string {
	return fmt.Sprintf("Certificate ID: %s, Register Date: %s", c.CertificateID, c.RegisterDate)
}

// NormalizeDomain strips a single leading "*." from d. Any other value is returned as is.
func NormalizeDomain(d string) string {
	if strings.HasPrefix(d, wildcardPrefix) {
		return d[len(wildcardPrefix):]
	}
	return d
}

// FlexString decodes a JSON string or number into its textual form.
// The monitoring API is not consistent about quoting numeric identifiers.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(b))
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}
