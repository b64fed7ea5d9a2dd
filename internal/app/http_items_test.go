package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ticklist/internal/appwrite"
)

func postForm(t *testing.T, target, form string) *http.Request {
	t.Helper()
	req := authedRequest(t, http.MethodPost, target, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestCreateItemWithoutContentReturns400(t *testing.T) {
	adminDB := &fakeDatabases{}
	server := newTestServer(adminDB, &fakeDatabases{}, &fakeAccount{})
	rr := httptest.NewRecorder()

	server.Handler().ServeHTTP(rr, postForm(t, "/items", "content="))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Content is required") {
		t.Fatalf("expected validation message, got %s", rr.Body.String())
	}
	if adminDB.createDocumentCalls != 0 {
		t.Fatalf("nothing may be persisted on a validation failure")
	}
}

func TestCreateItemWithEmptyJSONContentReturns400(t *testing.T) {
	adminDB := &fakeDatabases{}
	server := newTestServer(adminDB, &fakeDatabases{}, &fakeAccount{})

	req := authedRequest(t, http.MethodPost, "/items", strings.NewReader(`{"content":"  "}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if adminDB.createDocumentCalls != 0 {
		t.Fatalf("nothing may be persisted on a validation failure")
	}
}

func TestCreateItemRendersFragmentWithContentAndID(t *testing.T) {
	server := newTestServer(&fakeDatabases{}, &fakeDatabases{}, &fakeAccount{})
	rr := httptest.NewRecorder()

	server.Handler().ServeHTTP(rr, postForm(t, "/items", "content=Buy+milk"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Buy milk") {
		t.Fatalf("expected content in fragment, got %s", body)
	}
	if !strings.Contains(body, `id="item-`) {
		t.Fatalf("expected item id in fragment, got %s", body)
	}
}

func TestCreateItemAcceptsJSONBody(t *testing.T) {
	server := newTestServer(&fakeDatabases{}, &fakeDatabases{}, &fakeAccount{})

	req := authedRequest(t, http.MethodPost, "/items", strings.NewReader(`{"content":"Walk dog"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Walk dog") {
		t.Fatalf("expected content in fragment, got %s", rr.Body.String())
	}
}

func TestUpdateItemWithoutContentReturns400(t *testing.T) {
	userDB := &fakeDatabases{}
	server := newTestServer(&fakeDatabases{}, userDB, &fakeAccount{})

	req := authedRequest(t, http.MethodPut, "/items/doc-1", strings.NewReader("content="))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()

	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if userDB.updateDocumentCalls != 0 {
		t.Fatalf("nothing may be persisted on a validation failure")
	}
}

func TestUpdateItemRendersFragment(t *testing.T) {
	userDB := &fakeDatabases{}
	server := newTestServer(&fakeDatabases{}, userDB, &fakeAccount{})

	req := authedRequest(t, http.MethodPut, "/items/doc-1", strings.NewReader(`{"content":"Walk dog twice"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Walk dog twice") {
		t.Fatalf("expected updated content, got %s", rr.Body.String())
	}
	if userDB.updateDocumentCalls != 1 {
		t.Fatalf("expected one update call, got %d", userDB.updateDocumentCalls)
	}
}

func TestUpdateMissingItemReturns404(t *testing.T) {
	userDB := &fakeDatabases{
		updateDocumentFn: func(context.Context, string, map[string]any) (appwrite.Document, error) {
			return appwrite.Document{}, &appwrite.Error{Message: "Document with the requested ID could not be found.", Code: 404, Type: "document_not_found"}
		},
	}
	server := newTestServer(&fakeDatabases{}, userDB, &fakeAccount{})

	req := authedRequest(t, http.MethodPut, "/items/missing", strings.NewReader(`{"content":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestUpdateForbiddenItemReturns403(t *testing.T) {
	userDB := &fakeDatabases{
		updateDocumentFn: func(context.Context, string, map[string]any) (appwrite.Document, error) {
			return appwrite.Document{}, &appwrite.Error{Message: "The current user is not authorized to perform the requested action.", Code: 401, Type: "user_unauthorized"}
		},
	}
	server := newTestServer(&fakeDatabases{}, userDB, &fakeAccount{})

	req := authedRequest(t, http.MethodPut, "/items/doc-1", strings.NewReader(`{"content":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestDeleteItemReturns200Empty(t *testing.T) {
	userDB := &fakeDatabases{}
	server := newTestServer(&fakeDatabases{}, userDB, &fakeAccount{})
	rr := httptest.NewRecorder()

	server.Handler().ServeHTTP(rr, authedRequest(t, http.MethodDelete, "/items/doc-1", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %s", rr.Body.String())
	}
	if userDB.deleteDocumentCalls != 1 {
		t.Fatalf("expected one delete call, got %d", userDB.deleteDocumentCalls)
	}
}

func TestDeletedItemNoLongerListed(t *testing.T) {
	// In-memory stand-in for the platform collection, shared by the admin
	// and user credentials the way one project is.
	documents := map[string]appwrite.Document{}
	store := &fakeDatabases{
		createDocumentFn: func(_ context.Context, documentID string, data map[string]any, permissions []string) (appwrite.Document, error) {
			content, _ := data["content"].(string)
			doc := appwrite.Document{ID: documentID, Content: content, Permissions: permissions}
			documents[documentID] = doc
			return doc, nil
		},
		deleteDocumentFn: func(_ context.Context, documentID string) error {
			delete(documents, documentID)
			return nil
		},
		listDocumentsFn: func(context.Context) ([]appwrite.Document, error) {
			var docs []appwrite.Document
			for _, doc := range documents {
				docs = append(docs, doc)
			}
			return docs, nil
		},
	}
	server := newTestServer(store, store, &fakeAccount{})

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, postForm(t, "/items", "content=Buy+milk"))
	if rr.Code != http.StatusOK {
		t.Fatalf("create failed: %d %s", rr.Code, rr.Body.String())
	}
	if len(documents) != 1 {
		t.Fatalf("expected one stored document, got %d", len(documents))
	}
	var itemID string
	for id := range documents {
		itemID = id
	}

	rr = httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, authedRequest(t, http.MethodDelete, "/items/"+itemID, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("delete failed: %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, authedRequest(t, http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("list failed: %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), itemID) {
		t.Fatalf("deleted item %s still listed", itemID)
	}
}

func TestItemRoutesRequireAuthentication(t *testing.T) {
	server := newTestServer(&fakeDatabases{}, &fakeDatabases{}, &fakeAccount{})

	requests := []*http.Request{
		httptest.NewRequest(http.MethodPost, "/items", strings.NewReader("content=x")),
		httptest.NewRequest(http.MethodPut, "/items/doc-1", strings.NewReader("content=x")),
		httptest.NewRequest(http.MethodDelete, "/items/doc-1", nil),
	}
	for _, req := range requests {
		rr := httptest.NewRecorder()
		server.Handler().ServeHTTP(rr, req)
		if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/login" {
			t.Fatalf("%s %s: expected login redirect, got %d", req.Method, req.URL.Path, rr.Code)
		}
	}
}
