package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hive-corporation/loboguara-connector/internal/adapter/opencti"
	"github.com/hive-corporation/loboguara-connector/internal/adapter/provider"
	"github.com/hive-corporation/loboguara-connector/internal/core/domain"
	"github.com/hive-corporation/loboguara-connector/internal/core/service"
)

type platformState struct {
	observables []map[string]interface{}
	orgAdds     int
}

func newPlatformServer(t *testing.T, state *platformState, observableResponse string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request: %v", err)
			return
		}

		switch {
		case strings.Contains(req.Query, "organizations("):
			w.Write([]byte(`{"data": {"organizations": {"edges": []}}}`))
		case strings.Contains(req.Query, "organizationAdd("):
			state.orgAdds++
			w.Write([]byte(`{"data": {"organizationAdd": {"id": "org-1", "name": "Lobo Guara"}}}`))
		case strings.Contains(req.Query, "labels("):
			w.Write([]byte(`{"data": {"labels": {"edges": []}}}`))
		case strings.Contains(req.Query, "labelAdd("):
			input := req.Variables["input"].(map[string]interface{})
			w.Write([]byte(`{"data": {"labelAdd": {"id": "label-` + input["value"].(string) + `", "value": "x"}}}`))
		case strings.Contains(req.Query, "markingDefinitions("):
			w.Write([]byte(`{"data": {"markingDefinitions": {"edges": []}}}`))
		case strings.Contains(req.Query, "stixCyberObservableAdd("):
			state.observables = append(state.observables, req.Variables)
			w.Write([]byte(observableResponse))
		default:
			t.Errorf("unexpected query: %s", req.Query)
		}
	}))
}

func newMonitoringServer(body string) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token": "t"}`))
	})
	mux.HandleFunc("/certs", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})
	return httptest.NewServer(mux)
}

func buildConnector(t *testing.T, monitoringURL, platformURL string) (*service.Connector, *opencti.Client) {
	t.Helper()
	source := provider.NewLoboGuaraProvider(nil, provider.LoboGuaraConfig{
		CertificatesURL: monitoringURL + "/certs",
		TokenURL:        monitoringURL + "/token",
		Username:        "u",
		Password:        "p",
	})
	platform := opencti.NewClient(nil, platformURL, "token", zerolog.Nop())

	c, err := service.NewConnector(source, platform, service.Options{
		Interval: time.Hour,
		Marking:  "TLP:AMBER",
		Score:    50,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewConnector failed: %v", err)
	}
	return c, platform
}

func TestEndToEnd_WildcardCertificate(t *testing.T) {
	monitoring := newMonitoringServer(`{"monitored_certificate_domains": [
		{"domain": "*.evil.test", "certificate_id": "C1", "register_date": "2024-01-01"}
	]}`)
	defer monitoring.Close()

	state := &platformState{}
	platformSrv := newPlatformServer(t, state, `{"data": {"stixCyberObservableAdd": {"id": "obs-1", "observable_value": "evil.test"}}}`)
	defer platformSrv.Close()

	c, platform := buildConnector(t, monitoring.URL, platformSrv.URL)

	org, err := service.ProvisionOrganization(context.Background(), platform, zerolog.Nop())
	if err != nil {
		t.Fatalf("provisioning failed: %v", err)
	}

	result := c.RunCycle(context.Background(), org)
	if !result.OK() {
		t.Fatalf("cycle failed: %v", result.Err)
	}

	if len(state.observables) != 1 {
		t.Fatalf("expected 1 observable, got %d", len(state.observables))
	}
	vars := state.observables[0]
	if dn := vars["DomainName"].(map[string]interface{}); dn["value"] != "evil.test" {
		t.Errorf("expected evil.test, got %v", dn["value"])
	}
	if vars["x_opencti_description"] != "Certificate ID: C1, Register Date: 2024-01-01" {
		t.Errorf("unexpected description %v", vars["x_opencti_description"])
	}
	if vars["createdBy"] != "org-1" {
		t.Errorf("expected org-1 as creator, got %v", vars["createdBy"])
	}
	labels := vars["objectLabel"].([]interface{})
	if len(labels) != 2 || labels[0] != "label-loboguara" || labels[1] != "label-new_certificate" {
		t.Errorf("unexpected labels %v", labels)
	}
}

func TestEndToEnd_MutationErrorsDoNotAbort(t *testing.T) {
	monitoring := newMonitoringServer(`{"monitored_certificate_domains": [
		{"domain": "a.test", "certificate_id": "C1", "register_date": "2024-01-01"},
		{"domain": "b.test", "certificate_id": "C2", "register_date": "2024-01-02"}
	]}`)
	defer monitoring.Close()

	state := &platformState{}
	platformSrv := newPlatformServer(t, state, `{"errors": [{"message": "Restricted"}], "data": null}`)
	defer platformSrv.Close()

	c, _ := buildConnector(t, monitoring.URL, platformSrv.URL)

	result := c.RunCycle(context.Background(), domain.Organization{ID: "org-1", Name: service.OrganizationName})
	if !result.OK() {
		t.Fatalf("cycle must survive mutation errors: %v", result.Err)
	}
	if len(state.observables) != 2 {
		t.Errorf("expected both certificates to reach the platform, got %d", len(state.observables))
	}
	if result.Rejected != 2 {
		t.Errorf("expected 2 rejected observables, got %d", result.Rejected)
	}
}
