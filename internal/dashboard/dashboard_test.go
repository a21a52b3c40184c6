package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/sheetdash/internal/dataset"
	"github.com/KaramelBytes/sheetdash/internal/source"
)

func newTestSession(t *testing.T, fs afero.Fs) *Session {
	t.Helper()
	if fs == nil {
		fs = afero.NewMemMapFs()
	}
	return NewSession(
		source.NewFileSource(fs),
		source.NewRemoteSource(0),
		source.NewBundledSource(),
		Options{Normalize: dataset.DefaultOptions()},
	)
}

func TestSessionStartsEmpty(t *testing.T) {
	assert.Nil(t, newTestSession(t, nil).Current())
}

func TestFailedLoadKeepsCurrent(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "good.csv", []byte("a,b\n1,2\n3,4\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "empty.csv", []byte("a,b\n"), 0o644))
	sess := newTestSession(t, fs)

	first, err := sess.LoadFile(context.Background(), "good.csv")
	require.NoError(t, err)
	require.Same(t, first, sess.Current())

	_, err = sess.LoadFile(context.Background(), "empty.csv")
	var empty *dataset.EmptyDatasetError
	require.ErrorAs(t, err, &empty)

	_, err = sess.LoadFile(context.Background(), "report.pdf")
	var unsupported *dataset.UnsupportedExtensionError
	require.ErrorAs(t, err, &unsupported)

	_, err = sess.LoadURL(context.Background(), "   ")
	var invalid *dataset.InvalidInputError
	require.ErrorAs(t, err, &invalid)

	assert.Same(t, first, sess.Current())
}

func TestLoadSampleFallback(t *testing.T) {
	sess := newTestSession(t, nil)
	sess.Bundled = &source.BundledSource{FS: fstest.MapFS{}, Path: "missing.csv"}

	snap := sess.LoadSample()
	require.NotNil(t, snap)
	assert.True(t, snap.Dataset.Fallback)
	assert.Equal(t, dataset.SourceBundled, snap.Dataset.Source)
	assert.Equal(t, 6, snap.Dataset.Len())
	assert.Equal(t, []string{"sales", "costs", "profit", "units_sold"}, snap.Dataset.Schema.Numeric)

	sales, ok := snap.Report.Summary.Stat("sales")
	require.True(t, ok)
	assert.Equal(t, float64(127000), sales.Total)
}

func TestLoadSampleBundled(t *testing.T) {
	snap := newTestSession(t, nil).LoadSample()
	assert.False(t, snap.Dataset.Fallback)
	assert.Equal(t, source.DefaultSamplePath, snap.Dataset.Name)
	assert.Equal(t, 12, snap.Dataset.Len())
}

func TestLoadURLReplacesDataset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`[{"region":"North","revenue":"120"},{"region":"South","revenue":80}]`))
	}))
	defer srv.Close()

	sess := newTestSession(t, nil)
	before := sess.LoadSample()
	snap, err := sess.LoadURL(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.NotSame(t, before, sess.Current())
	assert.Equal(t, dataset.SourceRemote, snap.Dataset.Source)
	assert.Equal(t, []string{"region", "revenue"}, snap.Dataset.Schema.Columns)

	rev, ok := snap.Report.Summary.Stat("revenue")
	require.True(t, ok)
	assert.Equal(t, float64(200), rev.Total)
	assert.Equal(t, []string{"North", "South"}, snap.Report.Summary.Comparison.Labels)
}

func TestOverlappingLoadsPublishInStartOrder(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		if r.URL.Path == "/slow" {
			close(started)
			<-release
		}
		_, _ = w.Write([]byte("item,qty\nwidget,1\n"))
	}))
	defer srv.Close()

	sess := newTestSession(t, nil)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := sess.LoadURL(context.Background(), srv.URL+"/slow")
		assert.NoError(t, err)
	}()
	<-started
	go func() {
		defer wg.Done()
		_, err := sess.LoadURL(context.Background(), srv.URL+"/fast")
		assert.NoError(t, err)
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NotNil(t, sess.Current())
	assert.Equal(t, srv.URL+"/fast", sess.Current().Dataset.Name)
}

func do(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestServerCurrentBeforeLoad(t *testing.T) {
	h := NewServer(newTestSession(t, nil), nil, 0).Routes()
	rec, body := do(t, h, httptest.NewRequest(http.MethodGet, "/api/dataset", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
}

func TestServerSampleThenCurrent(t *testing.T) {
	h := NewServer(newTestSession(t, nil), nil, 0).Routes()

	rec, body := do(t, h, httptest.NewRequest(http.MethodPost, "/api/dataset/sample", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["fallback"])
	assert.Equal(t, float64(12), body["records"])
	assert.Len(t, body["head"], 10)

	rec, current := do(t, h, httptest.NewRequest(http.MethodGet, "/api/dataset", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, body["id"], current["id"])
}

func TestServerURLErrors(t *testing.T) {
	missing := httptest.NewServer(http.NotFoundHandler())
	defer missing.Close()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"blank url", `{"url":"  "}`, http.StatusBadRequest},
		{"not json", `url=x`, http.StatusBadRequest},
		{"remote 404", `{"url":"` + missing.URL + `"}`, http.StatusBadGateway},
	}
	h := NewServer(newTestSession(t, nil), nil, 0).Routes()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/dataset/url", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec, body := do(t, h, req)
			assert.Equal(t, tt.want, rec.Code)
			assert.NotEmpty(t, body["detail"])
		})
	}
}

func upload(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/dataset/file", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestServerFileUpload(t *testing.T) {
	h := NewServer(newTestSession(t, nil), nil, 0).Routes()

	rec, body := do(t, h, upload(t, "ventas.CSV", []byte("item,qty\nA,2\nB,3\n")))
	require.Equal(t, http.StatusOK, rec.Code, body)
	assert.Equal(t, "file", body["source"])
	assert.Equal(t, float64(2), body["records"])

	rec, _ = do(t, h, upload(t, "notes.txt", []byte("hello")))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec, _ = do(t, h, upload(t, "header.csv", []byte("item,qty\n")))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = do(t, h, upload(t, "old.xls", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// the first upload is still on display
	rec, current := do(t, h, httptest.NewRequest(http.MethodGet, "/api/dataset", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ventas.CSV", current["name"])
}

func TestServerHealthz(t *testing.T) {
	h := NewServer(newTestSession(t, nil), nil, 0).Routes()
	rec, body := do(t, h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}
