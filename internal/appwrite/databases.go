package appwrite

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Databases exposes the document and attribute APIs of one collection.
type Databases struct {
	client       *Client
	databaseID   string
	collectionID string
}

func NewDatabases(client *Client, databaseID, collectionID string) *Databases {
	return &Databases{
		client:       client,
		databaseID:   databaseID,
		collectionID: collectionID,
	}
}

// Attribute is a schema field on the collection.
type Attribute struct {
	Key      string `json:"key"`
	Type     string `json:"type"`
	Status   string `json:"status"`
	Required bool   `json:"required"`
	Size     int    `json:"size"`
}

// Document is a stored to-do item. Fields other than content are
// platform-managed.
type Document struct {
	ID          string   `json:"$id"`
	Content     string   `json:"content"`
	Permissions []string `json:"$permissions"`
}

type attributeList struct {
	Total      int         `json:"total"`
	Attributes []Attribute `json:"attributes"`
}

type documentList struct {
	Total     int        `json:"total"`
	Documents []Document `json:"documents"`
}

func (d *Databases) collectionPath() string {
	return fmt.Sprintf("/databases/%s/collections/%s",
		url.PathEscape(d.databaseID), url.PathEscape(d.collectionID))
}

func (d *Databases) documentPath(documentID string) string {
	return d.collectionPath() + "/documents/" + url.PathEscape(documentID)
}

func (d *Databases) ListAttributes(ctx context.Context) ([]Attribute, error) {
	var list attributeList
	if err := d.client.call(ctx, http.MethodGet, d.collectionPath()+"/attributes", nil, &list); err != nil {
		return nil, err
	}
	return list.Attributes, nil
}

func (d *Databases) CreateStringAttribute(ctx context.Context, key string, size int, required bool) error {
	body := map[string]any{
		"key":      key,
		"size":     size,
		"required": required,
	}
	return d.client.call(ctx, http.MethodPost, d.collectionPath()+"/attributes/string", body, nil)
}

// ListDocuments returns the documents the client's credential may read; the
// platform does the filtering.
func (d *Databases) ListDocuments(ctx context.Context) ([]Document, error) {
	var list documentList
	if err := d.client.call(ctx, http.MethodGet, d.collectionPath()+"/documents", nil, &list); err != nil {
		return nil, err
	}
	return list.Documents, nil
}

func (d *Databases) CreateDocument(ctx context.Context, documentID string, data map[string]any, permissions []string) (Document, error) {
	body := map[string]any{
		"documentId": documentID,
		"data":       data,
	}
	if len(permissions) > 0 {
		body["permissions"] = permissions
	}
	var doc Document
	if err := d.client.call(ctx, http.MethodPost, d.collectionPath()+"/documents", body, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (d *Databases) UpdateDocument(ctx context.Context, documentID string, data map[string]any) (Document, error) {
	body := map[string]any{"data": data}
	var doc Document
	if err := d.client.call(ctx, http.MethodPatch, d.documentPath(documentID), body, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (d *Databases) DeleteDocument(ctx context.Context, documentID string) error {
	return d.client.call(ctx, http.MethodDelete, d.documentPath(documentID), nil, nil)
}
