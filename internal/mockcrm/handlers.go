// ABOUTME: HTTP handlers for the mock Salesforce REST API.
// ABOUTME: Token issue and revoke, SObject create, get, list, and describe.

package mockcrm

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apierrors "github.com/dusch/testdata-salesforce/internal/errors"
	"github.com/dusch/testdata-salesforce/internal/metrics"
	"github.com/dusch/testdata-salesforce/internal/store"
)

const orgID = "00DMOCK000000001"

// handleToken implements the OAuth 2.0 username-password flow. Any non-empty
// username and password are accepted.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		apierrors.WriteOAuthError(w, http.StatusBadRequest, apierrors.OAuthInvalidRequest, "invalid form body")
		return
	}

	if gt := r.PostFormValue("grant_type"); gt != "password" {
		apierrors.WriteOAuthError(w, http.StatusBadRequest, apierrors.OAuthUnsupportedGrant, "grant type not supported")
		return
	}
	clientID := r.PostFormValue("client_id")
	if clientID == "" || r.PostFormValue("client_secret") == "" {
		apierrors.WriteOAuthError(w, http.StatusBadRequest, apierrors.OAuthInvalidClient, "invalid client credentials")
		return
	}
	username := r.PostFormValue("username")
	if username == "" || r.PostFormValue("password") == "" {
		apierrors.WriteOAuthError(w, http.StatusBadRequest, apierrors.OAuthInvalidGrant, "authentication failure")
		return
	}

	now := s.now()
	token := &store.OAuthToken{
		Token:       orgID + "!" + randomHex(24),
		Username:    username,
		ClientID:    clientID,
		InstanceURL: s.instanceFor(r),
		ExpiresAt:   now.Add(TokenTTL),
	}
	if err := s.store.StoreToken(token); err != nil {
		s.logger.Error("failed to store token", zap.Error(err))
		apierrors.WriteOAuthError(w, http.StatusInternalServerError, "server_error", "failed to issue token")
		return
	}
	metrics.RecordTokenIssued()
	s.logger.Info("issued session token", zap.String("username", username))

	apierrors.WriteJSON(w, http.StatusOK, map[string]any{
		"access_token": token.Token,
		"instance_url": token.InstanceURL,
		"id":           fmt.Sprintf("%s/id/%s/%s", token.InstanceURL, orgID, userIDFor(username)),
		"token_type":   "Bearer",
		"issued_at":    strconv.FormatInt(now.UnixMilli(), 10),
		"signature":    randomHex(16),
	})
}

// handleRevoke always answers 200, like Salesforce does for unknown tokens.
func (s *Server) handleRevoke(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		apierrors.WriteOAuthError(w, http.StatusBadRequest, apierrors.OAuthInvalidRequest, "invalid form body")
		return
	}
	token := r.FormValue("token")
	if token == "" {
		apierrors.WriteOAuthError(w, http.StatusBadRequest, apierrors.OAuthInvalidRequest, "missing token parameter")
		return
	}
	if err := s.store.RevokeToken(token); err != nil {
		s.logger.Warn("failed to revoke token", zap.Error(err))
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	schema, ok := s.schemaFor(w, r)
	if !ok {
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil || fields == nil {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrJSONParser, "Unexpected character in request body: expected a JSON object")
		return
	}
	delete(fields, "attributes")

	apiErrs, err := validate(schema, fields, s.store)
	if err != nil {
		s.logger.Error("validation lookup failed", zap.String("sobject", schema.Name), zap.Error(err))
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrUnknown, "An unexpected error occurred")
		return
	}
	if len(apiErrs) > 0 {
		metrics.RecordSave(schema.Name, metrics.OutcomeRejected)
		apierrors.WriteErrors(w, http.StatusBadRequest, apiErrs)
		return
	}

	rec := &store.Record{
		ID:      newID(schema.KeyPrefix),
		SObject: schema.Name,
		Name:    displayName(schema, fields),
		Fields:  fields,
	}
	rec.OwnerID, _ = fields["OwnerId"].(string)

	if err := s.store.CreateRecord(rec); err != nil {
		s.logger.Error("failed to store record", zap.String("sobject", schema.Name), zap.Error(err))
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrUnknown, "An unexpected error occurred")
		return
	}
	metrics.RecordSave(schema.Name, metrics.OutcomeCreated)

	apierrors.WriteJSON(w, http.StatusCreated, apierrors.SaveResult{ID: rec.ID, Success: true, Errors: []apierrors.APIError{}})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	schema, ok := s.schemaFor(w, r)
	if !ok {
		return
	}

	rec, err := s.store.GetRecord(schema.Name, chi.URLParam(r, "id"))
	if errors.Is(err, sql.ErrNoRows) {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrNotFound, "The requested resource does not exist")
		return
	}
	if err != nil {
		s.logger.Error("failed to load record", zap.Error(err))
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrUnknown, "An unexpected error occurred")
		return
	}

	apierrors.WriteJSON(w, http.StatusOK, s.recordBody(r, rec))
}

// handleList mirrors the SObject basic-info resource: describe summary plus
// recentItems. Supports ?limit= and ?name= (substring match).
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	schema, ok := s.schemaFor(w, r)
	if !ok {
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 2000 {
			limit = parsed
		}
	}

	recs, err := s.store.ListRecords(store.RecordQuery{
		SObject:      schema.Name,
		NameContains: r.URL.Query().Get("name"),
		Limit:        limit,
	})
	if err != nil {
		s.logger.Error("failed to list records", zap.Error(err))
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrUnknown, "An unexpected error occurred")
		return
	}

	items := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		items = append(items, map[string]any{
			"attributes": s.attributes(r, rec.SObject, rec.ID),
			"Id":         rec.ID,
			"Name":       rec.Name,
		})
	}

	apierrors.WriteJSON(w, http.StatusOK, map[string]any{
		"objectDescribe": describeSummary(schema),
		"recentItems":    items,
	})
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	schema, ok := s.schemaFor(w, r)
	if !ok {
		return
	}

	fields := make([]map[string]any, 0, len(schema.Fields)+1)
	fields = append(fields, map[string]any{
		"name": "Id", "type": "id", "label": "Record ID", "nillable": false, "createable": false, "referenceTo": []string{},
	})
	for _, f := range schema.Fields {
		refs := f.ReferenceTo
		if refs == nil {
			refs = []string{}
		}
		fields = append(fields, map[string]any{
			"name":        f.Name,
			"type":        f.Type,
			"label":       f.Label,
			"nillable":    !f.Required,
			"createable":  true,
			"referenceTo": refs,
		})
	}

	body := describeSummary(schema)
	body["fields"] = fields
	apierrors.WriteJSON(w, http.StatusOK, body)
}

func (s *Server) handleDescribeGlobal(w http.ResponseWriter, r *http.Request) {
	sobjects := make([]map[string]any, 0, len(schemas))
	for _, name := range SObjectNames() {
		schema, _ := LookupSchema(name)
		sobjects = append(sobjects, describeSummary(schema))
	}
	apierrors.WriteJSON(w, http.StatusOK, map[string]any{
		"encoding":     "UTF-8",
		"maxBatchSize": 200,
		"sobjects":     sobjects,
	})
}

// schemaFor resolves the {sobject} URL parameter, writing NOT_FOUND when the
// type is unknown.
func (s *Server) schemaFor(w http.ResponseWriter, r *http.Request) (*SObjectSchema, bool) {
	schema, ok := LookupSchema(chi.URLParam(r, "sobject"))
	if !ok {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrNotFound, "The requested resource does not exist")
		return nil, false
	}
	return schema, true
}

func (s *Server) recordBody(r *http.Request, rec *store.Record) map[string]any {
	body := make(map[string]any, len(rec.Fields)+3)
	for k, v := range rec.Fields {
		body[k] = v
	}
	body["attributes"] = s.attributes(r, rec.SObject, rec.ID)
	body["Id"] = rec.ID
	body["CreatedDate"] = rec.CreatedAt.UTC().Format("2006-01-02T15:04:05.000+0000")
	return body
}

func (s *Server) attributes(r *http.Request, sobject, id string) map[string]string {
	return map[string]string{
		"type": sobject,
		"url":  fmt.Sprintf("/services/data/%s/sobjects/%s/%s", chi.URLParam(r, "version"), sobject, id),
	}
}

func (s *Server) instanceFor(r *http.Request) string {
	if s.instanceURL != "" {
		return strings.TrimRight(s.instanceURL, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func describeSummary(schema *SObjectSchema) map[string]any {
	return map[string]any{
		"name":       schema.Name,
		"label":      schema.Label,
		"keyPrefix":  schema.KeyPrefix,
		"createable": true,
		"queryable":  true,
	}
}

// userIDFor derives a stable, well-formed User id from a username.
func userIDFor(username string) string {
	h := fnv.New64a()
	h.Write([]byte(username))
	return fmt.Sprintf("%s%015X", userKeyPrefix, h.Sum64()&0xFFFFFFFFFFFFFFF)
}

func randomHex(n int) string {
	b := make([]byte, n)
	rand.Read(b)
	return hex.EncodeToString(b)
}
