package devbackend

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"shorts-clipper/internal/catalog"
	"shorts-clipper/internal/draft"
	"shorts-clipper/internal/logging"
	"shorts-clipper/internal/model"
)

const maxFieldBytes = 64 << 10

func NewRouter(store *Store, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(logger))
	r.Use(LoggingMiddleware(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/jobs", func(r chi.Router) {
		r.Post("/", createJobHandler(store, logger))
		r.Get("/", listJobsHandler(store))
		r.Get("/{id}", getJobHandler(store))
		r.Get("/{id}/video", videoHandler(store))
		r.Get("/{id}/subtitles", subtitlesHandler(store))
	})

	return r
}

func createJobHandler(store *Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mr, err := r.MultipartReader()
		if err != nil {
			WriteError(w, http.StatusBadRequest, "expected multipart/form-data body")
			return
		}

		values := map[string]string{}
		var staged, fileName string
		defer func() {
			if staged != "" {
				_ = os.Remove(staged)
			}
		}()

		for {
			part, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				WriteError(w, http.StatusBadRequest, "malformed multipart body")
				return
			}

			if part.FormName() == "file" {
				if staged != "" {
					_ = part.Close()
					WriteError(w, http.StatusBadRequest, "only one file part is accepted")
					return
				}
				fileName = part.FileName()
				staged, err = store.stage(r.Context(), part)
				_ = part.Close()
				if err != nil {
					logger.Error("stage upload failed", "error", err, "request_id", requestIDFrom(r.Context()))
					WriteError(w, http.StatusInternalServerError, "could not store upload")
					return
				}
				continue
			}

			data, err := io.ReadAll(io.LimitReader(part, maxFieldBytes))
			_ = part.Close()
			if err != nil {
				WriteError(w, http.StatusBadRequest, "malformed multipart body")
				return
			}
			values[part.FormName()] = string(data)
		}

		req, problems := decodeJobForm(values, fileName)
		if len(problems) > 0 {
			WriteError(w, http.StatusUnprocessableEntity, "invalid job request", problems...)
			return
		}

		var upload io.Reader
		if req.SourceKind == catalog.SourceUpload && staged != "" {
			f, err := os.Open(staged)
			if err != nil {
				WriteError(w, http.StatusInternalServerError, "could not store upload")
				return
			}
			defer f.Close()
			upload = f
		}

		rec, err := store.Create(r.Context(), req, upload)
		if err != nil {
			logger.Error("create job failed", "error", err, "request_id", requestIDFrom(r.Context()))
			WriteError(w, http.StatusInternalServerError, "could not create job")
			return
		}

		logging.WithJobID(logger, rec.ID).Info("job created",
			"source_type", string(req.SourceKind),
			"request_id", requestIDFrom(r.Context()),
		)
		WriteJSON(w, http.StatusOK, rec)
	}
}

func listJobsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, model.JobList{Items: store.List()})
	}
}

func getJobHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := store.Get(chi.URLParam(r, "id"))
		if err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, rec)
	}
}

func videoHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path, err := store.VideoPath(chi.URLParam(r, "id"))
		if err != nil {
			WriteError(w, http.StatusNotFound, "video not available")
			return
		}
		f, err := os.Open(path)
		if err != nil {
			WriteError(w, http.StatusNotFound, "video not available")
			return
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "could not read video")
			return
		}
		if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
		http.ServeContent(w, r, filepath.Base(path), info.ModTime(), f)
	}
}

func subtitlesHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		srt, err := store.Subtitles(id)
		if err != nil {
			WriteError(w, http.StatusNotFound, "subtitles not available")
			return
		}
		w.Header().Set("Content-Type", "application/x-subrip; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+".srt"))
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, srt)
	}
}

// decodeJobForm maps multipart text fields onto a payload and validates it.
func decodeJobForm(values map[string]string, fileName string) (draft.Payload, []string) {
	var problems []string

	kind, ok := catalog.ParseSourceKind(values["source_type"])
	if !ok {
		problems = append(problems, fmt.Sprintf("source_type has invalid value %q", values["source_type"]))
	}
	duration, err := strconv.Atoi(strings.TrimSpace(values["duration_seconds"]))
	if err != nil {
		problems = append(problems, "duration_seconds must be an integer")
	}
	offset := 0
	if raw := strings.TrimSpace(values["subtitle_offset_y"]); raw != "" {
		if offset, err = strconv.Atoi(raw); err != nil {
			problems = append(problems, "subtitle_offset_y must be an integer")
		}
	}
	hard := false
	if raw := strings.TrimSpace(values["hard_subtitles"]); raw != "" {
		if hard, err = strconv.ParseBool(raw); err != nil {
			problems = append(problems, "hard_subtitles must be true or false")
		}
	}
	var effects []string
	for _, e := range strings.Split(values["video_effects"], ",") {
		if e = strings.TrimSpace(e); e != "" {
			effects = append(effects, e)
		}
	}
	if len(problems) > 0 {
		return draft.Payload{}, problems
	}

	p := draft.Payload{
		SourceKind:      kind,
		FilePath:        fileName,
		RemoteURL:       strings.TrimSpace(values["youtube_url"]),
		DurationSeconds: duration,
		SubtitleMode:    values["subtitle_mode"],
		CustomText:      values["custom_subtitle_text"],
		Language:        values["subtitle_language"],
		Template:        values["subtitle_template"],
		Position:        values["subtitle_position"],
		OffsetY:         offset,
		Effects:         effects,
		AspectRatio:     values["aspect_ratio"],
		Resolution:      values["resolution"],
		HardSubtitles:   hard,
	}
	return p, p.Problems()
}
