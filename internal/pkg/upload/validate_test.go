package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jpegHead = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46}
var pngHead = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00}

func TestValidatePhotoBySniff(t *testing.T) {
	mime, err := ValidatePhotoBySniff("grandma.jpg", jpegHead)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)

	mime, err = ValidatePhotoBySniff("portrait.png", pngHead)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
}

func TestValidatePhotoRejectsBadExtension(t *testing.T) {
	_, err := ValidatePhotoBySniff("malware.exe", jpegHead)
	assert.Error(t, err)

	_, err = ValidatePhotoBySniff("vector.svg", []byte("<svg xmlns="))
	assert.Error(t, err)
}

func TestValidatePhotoRejectsHTMLContent(t *testing.T) {
	_, err := ValidatePhotoBySniff("fake.jpg", []byte("<!DOCTYPE html><html><body>"))
	assert.Error(t, err)
}

func TestValidateDocumentAcceptsImageScan(t *testing.T) {
	mime, err := ValidateDocumentBySniff("census1900.jpg", jpegHead)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)
}

func TestValidateDocumentAcceptsTextFiles(t *testing.T) {
	mime, err := ValidateDocumentBySniff("notes.txt", []byte("John Smith born 1842 in Bavaria"))
	require.NoError(t, err)
	assert.Equal(t, "text/plain", mime)
}

func TestValidateDocumentRejectsHTMLText(t *testing.T) {
	_, err := ValidateDocumentBySniff("notes.txt", []byte("<!DOCTYPE html><script>"))
	assert.Error(t, err)
}

func TestValidateDocumentRejectsUnknownExtension(t *testing.T) {
	_, err := ValidateDocumentBySniff("records.docx", []byte("PK"))
	assert.Error(t, err)
}
