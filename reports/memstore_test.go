package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"civicreporter-be/models"
	"civicreporter-be/store"
)

// memStore is an in-memory ContentStore that answers like the hosted store:
// JSON documents, 404 for empty results.
type memStore struct {
	mu      sync.Mutex
	objects map[models.ObjectType][]map[string]any
	nextID  int
	now     time.Time

	inserts int
	updates int
	findErr error
}

func newMemStore(now time.Time) *memStore {
	return &memStore{objects: make(map[models.ObjectType][]map[string]any), now: now}
}

func toDoc(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		panic(err)
	}
	return doc
}

func decodeInto(v any, out any) error {
	if out == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// seed stores a fully formed object as-is.
func (s *memStore) seed(kind models.ObjectType, obj any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[kind] = append(s.objects[kind], toDoc(obj))
}

func matches(doc map[string]any, filter map[string]any) bool {
	for k, want := range filter {
		var got any
		if k == "metadata.issue_report" {
			meta, _ := doc["metadata"].(map[string]any)
			got = meta["issue_report"]
		} else {
			got = doc[k]
		}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

func (s *memStore) Find(_ context.Context, q store.Query, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return s.findErr
	}
	var found []map[string]any
	for _, doc := range s.objects[q.Type] {
		if matches(doc, q.Filter) {
			found = append(found, doc)
		}
	}
	if len(found) == 0 {
		return &store.Error{Op: "find", Status: http.StatusNotFound, Message: "No objects found"}
	}
	return decodeInto(found, out)
}

func (s *memStore) FindOne(_ context.Context, q store.Query, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.objects[q.Type] {
		if matches(doc, q.Filter) {
			return decodeInto(doc, out)
		}
	}
	return &store.Error{Op: "find one", Status: http.StatusNotFound, Message: "No objects found"}
}

func (s *memStore) InsertOne(_ context.Context, obj store.NewObject, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	s.nextID++
	id := fmt.Sprintf("obj%d", s.nextID)
	doc := map[string]any{
		"id":          id,
		"slug":        fmt.Sprintf("%s-%d", obj.Type, s.nextID),
		"title":       obj.Title,
		"type":        string(obj.Type),
		"created_at":  s.now.Format(time.RFC3339Nano),
		"modified_at": s.now.Format(time.RFC3339Nano),
		"metadata":    toDoc(obj.Metadata),
	}
	s.objects[obj.Type] = append(s.objects[obj.Type], doc)
	return decodeInto(doc, out)
}

func (s *memStore) UpdateOne(_ context.Context, objectType models.ObjectType, id string, metadata any, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.objects[objectType] {
		if doc["id"] != id {
			continue
		}
		s.updates++
		meta, _ := doc["metadata"].(map[string]any)
		if meta == nil {
			meta = map[string]any{}
		}
		for k, v := range toDoc(metadata) {
			meta[k] = v
		}
		doc["metadata"] = meta
		doc["modified_at"] = s.now.Format(time.RFC3339Nano)
		return decodeInto(doc, out)
	}
	return &store.Error{Op: "update", Status: http.StatusNotFound, Message: "Object not found"}
}

func (s *memStore) get(kind models.ObjectType, id string, out any) error {
	return s.FindOne(context.Background(), store.Query{Type: kind, Filter: map[string]any{"id": id}}, out)
}

type fakeUploader struct {
	err      error
	uploaded []string
}

func (u *fakeUploader) UploadMedia(_ context.Context, filename string, r io.Reader) (models.Media, error) {
	if u.err != nil {
		return models.Media{}, u.err
	}
	if _, err := io.ReadAll(r); err != nil {
		return models.Media{}, err
	}
	u.uploaded = append(u.uploaded, filename)
	return models.Media{URL: "https://cdn.example.com/" + filename, ImgixURL: "https://imgix.example.com/" + filename}, nil
}

type sentStatus struct {
	report models.IssueReport
	update models.StatusUpdate
}

type fakeNotifier struct {
	confirmations []models.IssueReport
	statusUpdates []sentStatus
}

func (n *fakeNotifier) SendConfirmation(_ context.Context, report models.IssueReport) {
	n.confirmations = append(n.confirmations, report)
}

func (n *fakeNotifier) SendStatusUpdate(_ context.Context, report models.IssueReport, update models.StatusUpdate) {
	n.statusUpdates = append(n.statusUpdates, sentStatus{report: report, update: update})
}
