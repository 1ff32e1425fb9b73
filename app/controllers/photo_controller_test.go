package controllers_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/tailorcraft/app/controllers"
	"github.com/shashiranjanraj/tailorcraft/app/models"
	"github.com/shashiranjanraj/tailorcraft/app/services"
	"github.com/shashiranjanraj/tailorcraft/pkg/storage"
)

// memDisk is an in-memory storage.Disk for tests.
type memDisk struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemDisk() *memDisk { return &memDisk{files: map[string][]byte{}} }

func (d *memDisk) Put(p string, content []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.files[p] = content
	return nil
}

func (d *memDisk) PutStream(p string, r io.Reader) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return d.Put(p, content)
}

func (d *memDisk) Get(p string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	content, ok := d.files[p]
	if !ok {
		return nil, os.ErrNotExist
	}
	return content, nil
}

func (d *memDisk) GetStream(p string) (io.ReadCloser, error) {
	content, err := d.Get(p)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (d *memDisk) Exists(p string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.files[p]
	return ok
}

func (d *memDisk) Size(p string) (int64, error) {
	content, err := d.Get(p)
	if err != nil {
		return 0, err
	}
	return int64(len(content)), nil
}

func (d *memDisk) URL(p string) string { return "mem://" + p }

func (d *memDisk) Delete(p string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.files, p)
	return nil
}

func (d *memDisk) Files(directory string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []string
	for p := range d.files {
		if path.Dir(p) == strings.TrimSuffix(directory, "/") {
			out = append(out, path.Base(p))
		}
	}
	sort.Strings(out)
	return out, nil
}

func (d *memDisk) DeleteDirectory(directory string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	prefix := strings.TrimSuffix(directory, "/") + "/"
	for p := range d.files {
		if strings.HasPrefix(p, prefix) {
			delete(d.files, p)
		}
	}
	return nil
}

func photoStack(t *testing.T) (*controllers.PhotoController, *services.CustomerService, *memDisk, string, models.Customer) {
	t.Helper()
	storage.Connect()
	disk := newMemDisk()
	storage.RegisterDisk("local", disk)

	store := newMemCustomerStore()
	service := services.NewCustomerService(store, models.DefaultLookaheadDays)
	tailor := primitive.NewObjectID().Hex()

	c := models.Customer{Name: "Jane Doe", Phone: "91111"}
	require.NoError(t, service.Create(context.Background(), tailor, &c))

	return controllers.NewPhotoController(service), service, disk, tailor, c
}

func multipartPhoto(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestPhotoUploadAndList(t *testing.T) {
	ctrl, service, disk, tailor, customer := photoStack(t)

	body, contentType := multipartPhoto(t, "front.jpg", []byte("jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost,
		"/api/tailor/customers/"+customer.ID.Hex()+"/photos", body)
	req.Header.Set("Content-Type", contentType)
	req = authed(req, tailor, models.RoleTailor, models.StatusApproved)
	req = urlParams(req, "id", customer.ID.Hex())

	rec := do(http.HandlerFunc(ctrl.Upload), req)
	require.Equal(t, http.StatusCreated, rec.Code)

	env := decode(t, rec)
	key := env.Data["key"].(string)
	assert.True(t, strings.HasPrefix(key, "photos/"+customer.ID.Hex()+"/"))
	assert.True(t, disk.Exists(key))

	updated, err := service.Get(context.Background(), tailor, customer.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []string{key}, updated.PhotoKeys)

	listReq := authed(jsonRequest(t, http.MethodGet,
		"/api/tailor/customers/"+customer.ID.Hex()+"/photos", nil),
		tailor, models.RoleTailor, models.StatusApproved)
	listReq = urlParams(listReq, "id", customer.ID.Hex())
	listRec := do(http.HandlerFunc(ctrl.List), listReq)
	require.Equal(t, http.StatusOK, listRec.Code)
	photos := decode(t, listRec).Data["photos"].([]interface{})
	require.Len(t, photos, 1)
	assert.Equal(t, "mem://"+key, photos[0])
}

func TestPhotoUploadRejectsUnknownExtension(t *testing.T) {
	ctrl, _, _, tailor, customer := photoStack(t)

	body, contentType := multipartPhoto(t, "notes.txt", []byte("text"))
	req := httptest.NewRequest(http.MethodPost,
		"/api/tailor/customers/"+customer.ID.Hex()+"/photos", body)
	req.Header.Set("Content-Type", contentType)
	req = authed(req, tailor, models.RoleTailor, models.StatusApproved)
	req = urlParams(req, "id", customer.ID.Hex())

	rec := do(http.HandlerFunc(ctrl.Upload), req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPhotoUploadCrossTenantIs404(t *testing.T) {
	ctrl, _, _, _, customer := photoStack(t)
	intruder := primitive.NewObjectID().Hex()

	body, contentType := multipartPhoto(t, "front.jpg", []byte("jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost,
		"/api/tailor/customers/"+customer.ID.Hex()+"/photos", body)
	req.Header.Set("Content-Type", contentType)
	req = authed(req, intruder, models.RoleTailor, models.StatusApproved)
	req = urlParams(req, "id", customer.ID.Hex())

	rec := do(http.HandlerFunc(ctrl.Upload), req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
