package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"citeapi.org/internal/audit"
	"citeapi.org/internal/auth"
	"citeapi.org/internal/resource"
	"citeapi.org/internal/schema"
)

// Operation surfaces a resource may implement. The mediator discovers them
// by type assertion; a resource exposes exactly the verbs it defines.
type creator interface {
	Create(ctx context.Context, data map[string]any) (map[string]any, error)
}

type retriever interface {
	Retrieve(ctx context.Context, query map[string]any) (map[string]any, error)
}

type updater interface {
	Update(ctx context.Context, data map[string]any) (map[string]any, error)
}

type deleter interface {
	Delete(ctx context.Context) (bool, error)
}

// handleResource is the single entry point for the resource tree: resolve
// the principal, walk the path, check the policy, dispatch the verb.
func (a *API) handleResource(w http.ResponseWriter, r *http.Request) {
	method := schema.Method(r.Method)
	if !method.Known() {
		methodNotAllowed(w, r, "GET", "POST", "PUT", "DELETE")
		return
	}
	capability, _ := resource.CapabilityFor(method)

	ctx := r.Context()
	authenticated := false
	if raw := r.Header.Get(authHeader); raw != "" {
		key, err := extractKey(raw)
		if err != nil {
			writeAPIError(w, r, http.StatusForbidden, "forbidden", err.Error())
			return
		}
		principal, t, err := a.auth.Authenticate(ctx, key)
		if err != nil {
			mapError(w, r, err)
			return
		}
		ctx = auth.ContextWithPrincipal(ctx, principal)
		ctx = auth.ContextWithKey(ctx, t.Key)
		authenticated = true
	}

	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(segments) == 0 || segments[0] != a.root.Name() {
		writeAPIError(w, r, http.StatusNotFound, "not_found", "resource not found")
		return
	}
	res, err := resource.Walk(a.root, segments[1:])
	if err != nil {
		writeAPIError(w, r, http.StatusNotFound, "not_found", "resource not found")
		return
	}

	if !res.ACL().Allows(capability, authenticated) {
		writeAPIError(w, r, http.StatusForbidden, "forbidden", "operation not permitted")
		return
	}

	switch method {
	case schema.MethodPost:
		op, ok := res.(creator)
		if !ok {
			methodNotAllowed(w, r, allowedVerbs(res)...)
			return
		}
		data, err := decodeBody(w, r)
		if err != nil {
			writeAPIError(w, r, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		body, err := op.Create(ctx, data)
		if err != nil {
			mapError(w, r, err)
			return
		}
		fields := map[string]any{"path": r.URL.Path}
		if body == nil {
			_ = audit.LogEvent(ctx, "resource.create", fields)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if id, ok := body["id"].(string); ok && id != "" {
			w.Header().Set("Location", r.URL.Path+"/"+id)
			fields["resource_id"] = id
		}
		_ = audit.LogEvent(ctx, "resource.create", fields)
		writeJSON(w, http.StatusCreated, body)

	case schema.MethodGet:
		op, ok := res.(retriever)
		if !ok {
			// bare traversal nodes answer retrieve with an empty response
			w.WriteHeader(http.StatusNoContent)
			return
		}
		body, err := op.Retrieve(ctx, queryData(r))
		if err != nil {
			mapError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, body)

	case schema.MethodPut:
		op, ok := res.(updater)
		if !ok {
			methodNotAllowed(w, r, allowedVerbs(res)...)
			return
		}
		data, err := decodeBody(w, r)
		if err != nil {
			writeAPIError(w, r, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		body, err := op.Update(ctx, data)
		if err != nil {
			mapError(w, r, err)
			return
		}
		_ = audit.LogEvent(ctx, "resource.update", map[string]any{"path": r.URL.Path})
		writeJSON(w, http.StatusOK, body)

	case schema.MethodDelete:
		op, ok := res.(deleter)
		if !ok {
			methodNotAllowed(w, r, allowedVerbs(res)...)
			return
		}
		deleted, err := op.Delete(ctx)
		if err != nil {
			mapError(w, r, err)
			return
		}
		if !deleted {
			writeAPIError(w, r, http.StatusNotFound, "not_found", "resource not found")
			return
		}
		_ = audit.LogEvent(ctx, "resource.delete", map[string]any{"path": r.URL.Path})
		w.WriteHeader(http.StatusNoContent)
	}
}

// queryData shapes URL query parameters the way body data arrives: one
// value stays a string, repeats become a string list.
func queryData(r *http.Request) map[string]any {
	values := r.URL.Query()
	if len(values) == 0 {
		return map[string]any{}
	}
	data := make(map[string]any, len(values))
	for name, vals := range values {
		if len(vals) == 1 {
			data[name] = vals[0]
			continue
		}
		data[name] = append([]string(nil), vals...)
	}
	return data
}

// decodeBody parses a JSON object body. An absent body is an empty object;
// malformed JSON or trailing data is an error.
func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	data := map[string]any{}
	if err := dec.Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, errors.New("malformed request body")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON body")
	}
	return data, nil
}

// allowedVerbs lists the verbs a resource actually implements, for the
// Allow header on 405 responses.
func allowedVerbs(res resource.Resource) []string {
	var verbs []string
	if _, ok := res.(retriever); ok {
		verbs = append(verbs, "GET")
	}
	if _, ok := res.(creator); ok {
		verbs = append(verbs, "POST")
	}
	if _, ok := res.(updater); ok {
		verbs = append(verbs, "PUT")
	}
	if _, ok := res.(deleter); ok {
		verbs = append(verbs, "DELETE")
	}
	if len(verbs) == 0 {
		verbs = append(verbs, "GET")
	}
	return verbs
}
