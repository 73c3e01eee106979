package api

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/h2non/filetype"
)

// Enough bytes for filetype to identify any supported image format.
const sniffLen = 261

// UploadAvatarHandler accepts a multipart image upload, stores it in the
// avatar store and points the user's avatar reference at it.
func (a *API) UploadAvatarHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if _, err := a.users.Get(userID); err != nil {
		writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.avatarMaxBytes)
	if err := r.ParseMultipartForm(a.avatarMaxBytes); err != nil {
		http.Error(w, "Upload too large or malformed", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("avatar")
	if err != nil {
		http.Error(w, "Missing avatar file", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		http.Error(w, "Failed to read upload", http.StatusBadRequest)
		return
	}
	head = head[:n]

	if !filetype.IsImage(head) {
		http.Error(w, "Avatar must be an image", http.StatusBadRequest)
		return
	}

	hash, err := a.avatars.Save(io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		log.Printf("failed to store avatar: %v", err)
		http.Error(w, "Failed to store avatar", http.StatusInternalServerError)
		return
	}

	avatarURL := fmt.Sprintf("%s/avatars/%s", a.baseURL, hash)
	if err := a.users.SetAvatarURL(userID, avatarURL); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]string{"avatarUrl": avatarURL})
}

// GetAvatarHandler serves a stored avatar image.
func (a *API) GetAvatarHandler(w http.ResponseWriter, r *http.Request) {
	f, err := a.avatars.Open(r.PathValue("hash"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		http.Error(w, "Failed to read avatar", http.StatusInternalServerError)
		return
	}
	head = head[:n]

	if kind, err := filetype.Match(head); err == nil && kind != filetype.Unknown {
		w.Header().Set("Content-Type", kind.MIME.Value)
	}

	if _, err := w.Write(head); err != nil {
		return
	}
	_, _ = io.Copy(w, f)
}
