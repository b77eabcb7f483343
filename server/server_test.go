package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audiodeck/config"
	"audiodeck/core/library"
	"audiodeck/model"
	"audiodeck/repository"
	"audiodeck/storage"
)

type testServer struct {
	srv      *httptest.Server
	root     string
	dataDir  string
	metadata repository.MetadataRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dataDir := t.TempDir()
	store, err := storage.NewFileStore(dataDir)
	require.NoError(t, err)

	root := filepath.Join(t.TempDir(), "assets")
	meta := repository.NewMetadataRepository(store)
	cfg := &config.Config{APIPrefix: "/api"}
	h := NewAPIHandler(
		library.New(root, meta),
		repository.NewPresetRepository(store),
		repository.NewOrderRepository(store),
		repository.NewSettingsRepository(store),
		cfg,
	)
	srv := httptest.NewServer(NewRouter(h, cfg))
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, root: root, dataDir: dataDir, metadata: meta}
}

func (ts *testServer) put(t *testing.T, rel, icon string) {
	t.Helper()
	p := filepath.Join(ts.root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("audio"), 0o644))
	if icon != "" {
		require.NoError(t, ts.metadata.Save(context.Background(), rel, model.TrackMetadata{"icon": icon}))
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestStructureEmpty(t *testing.T) {
	ts := newTestServer(t)
	code, body := ts.do(t, http.MethodGet, "/api/structure", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{}`, string(body))
}

func TestUploadAndList(t *testing.T) {
	ts := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "storm.mp3")
	require.NoError(t, err)
	_, err = fw.Write([]byte("ID3"))
	require.NoError(t, err)
	for k, v := range map[string]string{
		"name": "Rain Heavy", "type": "ambience", "frame": "Fantasy", "is_global": "true", "category": "Storm",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.srv.URL+"/api/tracks", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	code, body := ts.do(t, http.MethodGet, "/api/tracks", nil)
	require.Equal(t, http.StatusOK, code)
	tracks := decode[[]model.Track](t, body)
	require.Len(t, tracks, 1)
	assert.Equal(t, "Global/ambience/Storm/Rain Heavy.mp3", tracks[0].ID)
	assert.Equal(t, "CloudRain", tracks[0].Icon)
	assert.Nil(t, tracks[0].Frame)
	assert.Equal(t, ts.srv.URL+"/assets/Global/ambience/Storm/Rain%20Heavy.mp3", tracks[0].URL)

	// The track URL is served from the assets tree.
	resp, err = http.Get(tracks[0].URL)
	require.NoError(t, err)
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ID3", string(data))

	code, body = ts.do(t, http.MethodGet, "/api/structure", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"Global":{"ambience":{"Storm":[]}}}`, string(body))
}

func TestUploadWithoutFile(t *testing.T) {
	ts := newTestServer(t)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "x"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.srv.URL+"/api/tracks", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteMissingTrack(t *testing.T) {
	ts := newTestServer(t)
	ts.put(t, "Global/sfx/Hits/punch.wav", "Fist")
	before, err := os.ReadFile(filepath.Join(ts.dataDir, "metadata.json"))
	require.NoError(t, err)

	code, body := ts.do(t, http.MethodDelete, "/api/tracks?id=Global/sfx/Hits/ghost.wav", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"error":"File not found"}`, string(body))

	after, err := os.ReadFile(filepath.Join(ts.dataDir, "metadata.json"))
	require.NoError(t, err)
	assert.Equal(t, before, after)

	code, _ = ts.do(t, http.MethodDelete, "/api/tracks", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = ts.do(t, http.MethodDelete, "/api/tracks?id=Global/sfx/Hits/punch.wav", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"deleted"}`, string(body))
}

func TestMoveRenameAndMetadata(t *testing.T) {
	ts := newTestServer(t)
	ts.put(t, "Fantasy/music/Battle/General/theme.mp3", "Sword")

	code, body := ts.do(t, http.MethodPost, "/api/tracks/move", map[string]string{
		"trackId": "Fantasy/music/Battle/General/theme.mp3", "newFrame": "Fantasy", "newCategory": "Calm",
	})
	require.Equal(t, http.StatusOK, code, string(body))
	assert.JSONEq(t, `{"status":"moved"}`, string(body))

	code, body = ts.do(t, http.MethodPost, "/api/tracks/rename", map[string]string{
		"trackId": "Fantasy/music/Calm/General/theme.mp3", "newName": "Calm Theme",
	})
	require.Equal(t, http.StatusOK, code, string(body))

	code, body = ts.do(t, http.MethodPatch, "/api/tracks/metadata", map[string]string{
		"trackId": "Fantasy/music/Calm/General/Calm Theme.mp3",
	})
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"no changes"}`, string(body))

	code, body = ts.do(t, http.MethodPatch, "/api/tracks/metadata", map[string]string{
		"trackId": "Fantasy/music/Calm/General/Calm Theme.mp3", "icon": "Feather",
	})
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"updated"}`, string(body))

	all, err := ts.metadata.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]model.TrackMetadata{
		"Fantasy/music/Calm/General/Calm Theme.mp3": {"icon": "Feather"},
	}, all)

	code, body = ts.do(t, http.MethodPost, "/api/tracks/move", map[string]string{"trackId": "x.mp3"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.JSONEq(t, `{"error":"Missing data"}`, string(body))

	code, body = ts.do(t, http.MethodPost, "/api/tracks/rename", map[string]string{"trackId": "ghost.mp3", "newName": "x"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"error":"File not found"}`, string(body))
}

func TestCategoryEndpoints(t *testing.T) {
	ts := newTestServer(t)

	code, body := ts.do(t, http.MethodPost, "/api/categories", map[string]string{"frame": "Fantasy", "type": "music", "name": "Battle"})
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"created"}`, string(body))
	ts.put(t, "Fantasy/music/Battle/General/theme.mp3", "Sword")

	code, body = ts.do(t, http.MethodPost, "/api/categories/rename", map[string]string{
		"frame": "Fantasy", "type": "music", "oldName": "Battle", "newName": "War",
	})
	require.Equal(t, http.StatusOK, code, string(body))
	all, err := ts.metadata.GetAll(context.Background())
	require.NoError(t, err)
	assert.Contains(t, all, "Fantasy/music/War/General/theme.mp3")

	code, body = ts.do(t, http.MethodPost, "/api/categories/rename", map[string]string{
		"frame": "Fantasy", "type": "music", "oldName": "Battle", "newName": "War",
	})
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"error":"Category not found"}`, string(body))

	code, body = ts.do(t, http.MethodGet, "/api/structure", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"Fantasy":{"music":{"War":["General"]}}}`, string(body))

	code, _ = ts.do(t, http.MethodDelete, "/api/categories?frame=Fantasy&type=music&name=War", nil)
	assert.Equal(t, http.StatusOK, code)
	code, body = ts.do(t, http.MethodDelete, "/api/categories?frame=Fantasy&type=music&name=War", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"error":"Not found"}`, string(body))

	code, body = ts.do(t, http.MethodPost, "/api/system/prune", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"success","message":"System cleaned","removed":1}`, string(body))
}

func TestResyncEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.put(t, "Global/sfx/Hits/punch.wav", "Fist")

	code, body := ts.do(t, http.MethodPost, "/api/system/resync", map[string]string{
		"oldPrefix": "Global/sfx/Hits", "newPrefix": "Global/sfx/Combat",
	})
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"synced","updated":1}`, string(body))

	code, _ = ts.do(t, http.MethodPost, "/api/system/resync", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPresetsOrdersSettings(t *testing.T) {
	ts := newTestServer(t)

	code, body := ts.do(t, http.MethodPost, "/api/presets", map[string]any{
		"tracks": []string{"Global/sfx/Hits/punch.wav"},
	})
	require.Equal(t, http.StatusOK, code)
	preset := decode[model.Preset](t, body)
	assert.NotEmpty(t, preset.ID)
	assert.Equal(t, "Nuevo Preset", preset.Name)
	assert.Equal(t, "Global", preset.Frame)

	code, body = ts.do(t, http.MethodPost, "/api/presets", map[string]any{"id": preset.ID, "name": "Brawl", "frame": "Fantasy"})
	require.Equal(t, http.StatusOK, code)

	code, body = ts.do(t, http.MethodGet, "/api/presets", nil)
	require.Equal(t, http.StatusOK, code)
	presets := decode[[]model.Preset](t, body)
	require.Len(t, presets, 1)
	assert.Equal(t, "Brawl", presets[0].Name)

	code, body = ts.do(t, http.MethodDelete, "/api/presets/"+preset.ID, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"deleted"}`, string(body))
	_, body = ts.do(t, http.MethodGet, "/api/presets", nil)
	assert.JSONEq(t, `[]`, string(body))

	code, body = ts.do(t, http.MethodPost, "/api/playlist/order", map[string]any{"trackIds": []string{"a"}})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.JSONEq(t, `{"error":"missing key"}`, string(body))
	code, _ = ts.do(t, http.MethodPost, "/api/playlist/order", map[string]any{"key": "Fantasy:music", "trackIds": []string{"b", "a"}})
	require.Equal(t, http.StatusOK, code)
	_, body = ts.do(t, http.MethodGet, "/api/playlist/orders", nil)
	assert.JSONEq(t, `{"Fantasy:music":["b","a"]}`, string(body))

	_, body = ts.do(t, http.MethodGet, "/api/settings", nil)
	assert.JSONEq(t, `{}`, string(body))
	code, body = ts.do(t, http.MethodPost, "/api/settings", map[string]any{"volume": 0.4, "muted": false})
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"saved"}`, string(body))
	ts.do(t, http.MethodPost, "/api/settings", map[string]any{"volume": 0.9})
	_, body = ts.do(t, http.MethodGet, "/api/settings", nil)
	assert.JSONEq(t, `{"volume":0.9}`, string(body))
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)
	code, _ := ts.do(t, http.MethodOptions, "/api/tracks/move", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestInvalidJSON(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.srv.URL+"/api/tracks/move", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
