package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"civicreporter-be/models"
)

const (
	DefaultCosmicURL = "https://api.cosmicjs.com/v3"
	userAgent        = "civicreporter-be/1.0"
)

// CosmicStore talks to a Cosmic bucket over its REST API.
type CosmicStore struct {
	baseURL    string
	bucketSlug string
	readKey    string
	writeKey   string
	httpClient *http.Client
}

func NewCosmicStore(baseURL, bucketSlug, readKey, writeKey string) *CosmicStore {
	return NewCosmicStoreWithHTTP(baseURL, bucketSlug, readKey, writeKey, &http.Client{Timeout: 30 * time.Second})
}

// NewCosmicStoreWithHTTP is NewCosmicStore with a caller-supplied http.Client.
func NewCosmicStoreWithHTTP(baseURL, bucketSlug, readKey, writeKey string, httpClient *http.Client) *CosmicStore {
	if baseURL == "" {
		baseURL = DefaultCosmicURL
	}
	return &CosmicStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		bucketSlug: bucketSlug,
		readKey:    readKey,
		writeKey:   writeKey,
		httpClient: httpClient,
	}
}

func (s *CosmicStore) bucketURL(path string) string {
	return fmt.Sprintf("%s/buckets/%s/%s", s.baseURL, url.PathEscape(s.bucketSlug), path)
}

func (s *CosmicStore) newRequest(ctx context.Context, method, rawURL string, body any) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Authorization", "Bearer "+s.writeKey)
	}
	return req, nil
}

// do sends req and decodes a 2xx JSON body into out. Other statuses become *Error.
func (s *CosmicStore) do(op string, req *http.Request, out any) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &Error{Op: op, Status: http.StatusBadGateway, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &Error{Op: op, Status: resp.StatusCode, Message: cosmicMessage(body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Status: http.StatusBadGateway, Message: "decode response: " + err.Error()}
	}
	return nil
}

func cosmicMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}

func (s *CosmicStore) findURL(q Query) (string, error) {
	query := map[string]any{"type": q.Type}
	for k, v := range q.Filter {
		query[k] = v
	}
	encoded, err := json.Marshal(query)
	if err != nil {
		return "", fmt.Errorf("marshal query: %w", err)
	}

	params := url.Values{}
	params.Set("query", string(encoded))
	params.Set("read_key", s.readKey)
	if len(q.Props) > 0 {
		params.Set("props", strings.Join(q.Props, ","))
	}
	if q.Depth > 0 {
		params.Set("depth", strconv.Itoa(q.Depth))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	return s.bucketURL("objects") + "?" + params.Encode(), nil
}

type objectsEnvelope struct {
	Objects []json.RawMessage `json:"objects"`
	Total   int               `json:"total"`
}

type objectEnvelope struct {
	Object json.RawMessage `json:"object"`
}

func (s *CosmicStore) find(ctx context.Context, op string, q Query) ([]json.RawMessage, error) {
	u, err := s.findURL(q)
	if err != nil {
		return nil, err
	}
	req, err := s.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	var env objectsEnvelope
	if err := s.do(op, req, &env); err != nil {
		return nil, err
	}
	return env.Objects, nil
}

// Find decodes all matching objects into out, a pointer to a slice, one
// object at a time. Cosmic answers 404 when nothing matches; that error is
// returned unchanged.
func (s *CosmicStore) Find(ctx context.Context, q Query, out any) error {
	op := "find " + string(q.Type)
	objects, err := s.find(ctx, op, q)
	if err != nil {
		return err
	}
	sink, err := newObjectSink(op, out, q.OnDecodeError)
	if err != nil {
		return err
	}
	for i, raw := range objects {
		if err := sink.add(i, func(dst any) error { return json.Unmarshal(raw, dst) }); err != nil {
			return err
		}
	}
	sink.finish()
	return nil
}

func (s *CosmicStore) FindOne(ctx context.Context, q Query, out any) error {
	op := "find one " + string(q.Type)
	q.Limit = 1
	objects, err := s.find(ctx, op, q)
	if err != nil {
		return err
	}
	if len(objects) == 0 || string(objects[0]) == "null" {
		return notFound(op, "no matching object")
	}
	return json.Unmarshal(objects[0], out)
}

func (s *CosmicStore) InsertOne(ctx context.Context, obj NewObject, out any) error {
	body := map[string]any{
		"type":     obj.Type,
		"title":    obj.Title,
		"metadata": obj.Metadata,
	}
	req, err := s.newRequest(ctx, http.MethodPost, s.bucketURL("objects"), body)
	if err != nil {
		return err
	}
	return s.decodeObject("insert "+string(obj.Type), req, out)
}

// UpdateOne merges metadata into the object's existing metadata.
func (s *CosmicStore) UpdateOne(ctx context.Context, objectType models.ObjectType, id string, metadata any, out any) error {
	body := map[string]any{"metadata": metadata}
	req, err := s.newRequest(ctx, http.MethodPatch, s.bucketURL("objects/"+url.PathEscape(id)), body)
	if err != nil {
		return err
	}
	return s.decodeObject("update "+string(objectType), req, out)
}

func (s *CosmicStore) decodeObject(op string, req *http.Request, out any) error {
	var env objectEnvelope
	if err := s.do(op, req, &env); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if len(env.Object) == 0 || string(env.Object) == "null" {
		return notFound(op, "response carried no object")
	}
	return json.Unmarshal(env.Object, out)
}

// UploadMedia posts a file to the bucket's media library.
func (s *CosmicStore) UploadMedia(ctx context.Context, filename string, r io.Reader) (models.Media, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("media", filename)
	if err != nil {
		return models.Media{}, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return models.Media{}, fmt.Errorf("read upload: %w", err)
	}
	if err := form.Close(); err != nil {
		return models.Media{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.bucketURL("media"), &buf)
	if err != nil {
		return models.Media{}, err
	}
	req.Header.Set("Authorization", "Bearer "+s.writeKey)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", form.FormDataContentType())

	var env struct {
		Media models.Media `json:"media"`
	}
	if err := s.do("upload media", req, &env); err != nil {
		return models.Media{}, err
	}
	return env.Media, nil
}
