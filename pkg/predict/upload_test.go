package predict

import (
	"context"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadFileSendsMultipartForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)

		form, err := multipart.NewReader(r.Body, params["boundary"]).ReadForm(1 << 20)
		require.NoError(t, err)

		require.Len(t, form.File["prompt"], 1)
		assert.Equal(t, "data.csv", form.File["prompt"][0].Filename)
		assert.Equal(t, []string{"HUKUM"}, form.Value["otoritas"])
		assert.Equal(t, []string{"legal"}, form.Value["category"])
		assert.Equal(t, []string{"tabular"}, form.Value["tipe_data"])

		_, _ = w.Write([]byte(`{"status":"stored"}`))
	}))
	defer srv.Close()

	up := NewUploadClient(newTestClient(t), srv.URL, 5*time.Second)

	res := up.UploadFile(context.Background(), &Attachment{
		Filename: "data.csv",
		Content:  []byte("a,b\n1,2\n"),
	}, "HUKUM", "legal", "tabular")

	assert.True(t, res.Success)
}

func TestUploadFileMockResult(t *testing.T) {
	up := NewUploadClient(newTestClient(t, WithMockMode(true)), "http://example.invalid/predict", time.Second)

	res := up.UploadFile(context.Background(), &Attachment{
		Filename: "notes.txt",
		Content:  []byte("hello"),
	}, "SDM", "general", "")

	require.True(t, res.Success)

	data, ok := res.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "uploaded", data["status"])
	assert.Equal(t, "notes.txt", data["filename"])
	assert.Equal(t, 5, data["size"])
}
