package user

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/resource-api/internal/upload"
	"github.com/aanand-mishra/resource-api/internal/utils/request"
	"github.com/aanand-mishra/resource-api/internal/utils/response"
	"github.com/aanand-mishra/resource-api/internal/validate"
)

// maxDescription is the largest description form field accepted, in bytes.
const maxDescription = 64 << 10

// UploadResponse is the body returned by POST /upload.
type UploadResponse struct {
	Filename    string  `json:"filename"`
	ContentType *string `json:"content_type"`
	SizeBytes   int64   `json:"size_bytes"`
	Message     string  `json:"message"`
}

// Upload handles POST /upload?user_id=N with a multipart body holding a
// "file" part and an optional "description" field.
//
// The body is read part by part with a multipart.Reader, never parsed into
// memory or temp files as a whole, and the file part is handed to the
// Saver as a stream.
func Upload(saver *upload.Saver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := request.NewQuery(r)
		userID := q.OptionalInt("user_id")
		if err := q.Err(); err != nil {
			writeError(w, err, 0)
			return
		}
		if userID != nil && *userID < 1 {
			writeError(w, validate.Errors{{Field: "user_id", Message: "must be greater than or equal to 1"}}, 0)
			return
		}

		mr, err := r.MultipartReader()
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError("expected a multipart/form-data body"))
			return
		}

		var (
			resp        UploadResponse
			gotFile     bool
			description string
		)
		for {
			part, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				response.WriteJSON(w, http.StatusBadRequest,
					response.GeneralError("malformed multipart body"))
				return
			}

			switch part.FormName() {
			case "file":
				if gotFile || part.FileName() == "" {
					break
				}
				name, err := upload.CleanName(part.FileName())
				if err != nil {
					part.Close()
					writeError(w, validate.Errors{{Field: "file", Message: "invalid file name"}}, 0)
					return
				}
				size, err := saver.Save(name, part)
				if err != nil {
					part.Close()
					response.WriteInternal(w, err)
					return
				}
				gotFile = true
				resp.Filename = name
				resp.SizeBytes = size
				if ct := part.Header.Get("Content-Type"); ct != "" {
					resp.ContentType = &ct
				}
			case "description":
				b, err := io.ReadAll(io.LimitReader(part, maxDescription+1))
				if err != nil {
					part.Close()
					response.WriteJSON(w, http.StatusBadRequest,
						response.GeneralError("malformed multipart body"))
					return
				}
				if len(b) > maxDescription {
					part.Close()
					writeError(w, validate.Errors{{
						Field:   "description",
						Message: fmt.Sprintf("should have at most %d characters", maxDescription),
					}}, 0)
					return
				}
				description = string(b)
			}
			part.Close()
		}

		if !gotFile {
			writeError(w, validate.Errors{{Field: "file", Message: "field required"}}, 0)
			return
		}

		resp.Message = "Uploaded"
		if userID != nil {
			resp.Message = fmt.Sprintf("Uploaded for user %d", *userID)
		}
		if description != "" {
			resp.Message += fmt.Sprintf(" (%s)", description)
		}

		slog.Info("file uploaded",
			slog.String("filename", resp.Filename),
			slog.Int64("size_bytes", resp.SizeBytes),
			slog.String("dir", saver.Dir()))
		response.WriteJSON(w, http.StatusOK, resp)
	}
}
