package server

import (
	"bytes"
	"io"
	"math"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/fieldviz/pkg/buildinfo"
	fverrors "github.com/matzehuels/fieldviz/pkg/errors"
	"github.com/matzehuels/fieldviz/pkg/expr"
	"github.com/matzehuels/fieldviz/pkg/pipeline"
	"github.com/matzehuels/fieldviz/pkg/scene"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Current()})
}

func (s *Server) handleDefault(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scene.Default())
}

func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Formats   []string `json:"formats"`
		Functions []string `json:"functions"`
		Constants []string `json:"constants"`
	}{pipeline.Formats, expr.Functions(), expr.Constants()})
}

type materializeResponse struct {
	Name        string     `json:"name"`
	Hash        string     `json:"hash"`
	T           float64    `json:"t"`
	Dimension   int        `json:"dimension"`
	Coordinates []*float64 `json:"coordinates"`
	Cached      bool       `json:"cached"`
}

func (s *Server) handleMaterialize(w http.ResponseWriter, r *http.Request) {
	sc, err := s.sceneFromRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := optionsFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	frame, hit, err := s.cfg.Runner.Frame(r.Context(), sc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	coords := make([]*float64, len(frame.Values))
	for i, v := range frame.Values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			coords[i] = &v
		}
	}
	writeJSON(w, http.StatusOK, materializeResponse{
		Name:        sc.Name(),
		Hash:        sc.Hash(),
		T:           sc.T(),
		Dimension:   sc.Config().Sample.Dimension,
		Coordinates: coords,
		Cached:      hit,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	sc, err := s.sceneFromRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := optionsFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}

	result, err := s.cfg.Runner.Execute(r.Context(), sc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("X-Scene-Hash", result.SceneHash)
	w.Header().Set("X-Cache", cacheStatus(result.CacheInfo))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func cacheStatus(ci pipeline.CacheInfo) string {
	if ci.RenderHit {
		return "HIT"
	}
	return "MISS"
}

// sceneFromRequest decodes the body as a scene and applies the t query
// parameter.
func (s *Server) sceneFromRequest(w http.ResponseWriter, r *http.Request) (*scene.Scene, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		if isMaxBytes(err) {
			return nil, fverrors.New(fverrors.ErrCodeInvalidInput, "request body exceeds %d bytes", s.cfg.MaxBodyBytes)
		}
		return nil, fverrors.Wrap(fverrors.ErrCodeInvalidInput, err, "read request body")
	}

	var cfg scene.Config
	switch {
	case len(bytes.TrimSpace(body)) == 0:
		cfg = scene.Default()
	case isTOML(r.Header.Get("Content-Type")):
		cfg, err = scene.Decode(bytes.NewReader(body))
	case isJSON(r.Header.Get("Content-Type")):
		cfg, err = scene.DecodeJSON(bytes.NewReader(body))
	default:
		err = fverrors.New(fverrors.ErrCodeUnsupported, "unsupported content type %q", r.Header.Get("Content-Type"))
	}
	if err != nil {
		return nil, err
	}

	sc, err := scene.Build(cfg)
	if err != nil {
		return nil, err
	}
	if v := r.URL.Query().Get("t"); v != "" {
		t, err := parseFloat("t", v)
		if err != nil {
			return nil, err
		}
		sc.SetT(t)
	}
	return sc, nil
}

func optionsFromQuery(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	var opts pipeline.Options
	var err error

	for _, b := range []struct {
		name string
		dst  *bool
	}{
		{"axis", &opts.Axis},
		{"title", &opts.Title},
		{"detailed", &opts.Detailed},
		{"refresh", &opts.Refresh},
	} {
		if v := q.Get(b.name); v != "" {
			if *b.dst, err = strconv.ParseBool(v); err != nil {
				return opts, fverrors.New(fverrors.ErrCodeInvalidInput, "query parameter %s: %q is not a boolean", b.name, v)
			}
		}
	}
	if v := q.Get("scale"); v != "" {
		if opts.Scale, err = parseFloat("scale", v); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func parseFloat(name, v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fverrors.New(fverrors.ErrCodeInvalidInput, "query parameter %s: %q is not a finite number", name, v)
	}
	return f, nil
}

func mediaType(header string) string {
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return mt
}

func isTOML(header string) bool {
	switch mediaType(header) {
	case "application/toml", "text/toml", "application/x-toml":
		return true
	}
	return false
}

// isJSON accepts a missing Content-Type so curl -d works without -H.
func isJSON(header string) bool {
	if header == "" {
		return true
	}
	switch mediaType(header) {
	case "application/json", "application/x-www-form-urlencoded":
		return true
	}
	return false
}
