package controller

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaignboard/models"
	"campaignboard/utils"
)

func contentApp(t *testing.T) (*fiber.App, *ContentController, *models.Campaign) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db := testDB(t)
	store, err := utils.NewMediaStore(t.TempDir(), logger)
	require.NoError(t, err)
	tc := NewContentController(db, store, logger)

	app := fiber.New()
	app.Post("/campaign-content/:campaignId/media", tc.UploadMedia)
	app.Delete("/campaign-content/:campaignId/media/:mediaId", tc.DeleteMedia)

	campaign := models.Campaign{Name: "Summer Sale", CreatedBy: 1, Status: models.CampaignStatusActive}
	require.NoError(t, db.Create(&campaign).Error)
	return app, tc, &campaign
}

func addMediaPart(t *testing.T, w *multipart.Writer, filename, contentType, data string) {
	t.Helper()
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="media"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte(data))
	require.NoError(t, err)
}

func uploadMedia(t *testing.T, app *fiber.App, campaignID uint, parts func(w *multipart.Writer)) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	parts(w)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, fmt.Sprintf("/campaign-content/%d/media", campaignID), &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestUploadMediaStoresBatch(t *testing.T) {
	app, tc, campaign := contentApp(t)

	resp := uploadMedia(t, app, campaign.ID, func(w *multipart.Writer) {
		require.NoError(t, w.WriteField("youtubeUrl", "https://youtu.be/abc123"))
		addMediaPart(t, w, "banner.png", "image/png", "png-bytes")
		addMediaPart(t, w, "teaser.mp4", "video/mp4", "mp4-bytes")
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var content models.CampaignContent
	require.NoError(t, tc.DB.Preload("Media").Where("campaign_id = ?", campaign.ID).First(&content).Error)
	assert.Equal(t, "https://youtu.be/abc123", content.YoutubeURL)
	require.Len(t, content.Media, 2)
	assert.Equal(t, models.MediaTypeImage, content.Media[0].Type)
	assert.Equal(t, models.MediaTypeVideo, content.Media[1].Type)

	entries, err := os.ReadDir(tc.Store.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestUploadMediaRejectsWholeBatchOnBadFile(t *testing.T) {
	app, tc, campaign := contentApp(t)

	resp := uploadMedia(t, app, campaign.ID, func(w *multipart.Writer) {
		addMediaPart(t, w, "banner.png", "image/png", "png-bytes")
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var before []models.MediaAsset
	require.NoError(t, tc.DB.Find(&before).Error)
	require.Len(t, before, 1)

	// One unsupported file rejects the whole batch: the good file in
	// the same request must not land either.
	resp = uploadMedia(t, app, campaign.ID, func(w *multipart.Writer) {
		addMediaPart(t, w, "teaser.mp4", "video/mp4", "mp4-bytes")
		addMediaPart(t, w, "deck.pdf", "application/pdf", "pdf-bytes")
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var after []models.MediaAsset
	require.NoError(t, tc.DB.Find(&after).Error)
	require.Len(t, after, 1)
	assert.Equal(t, before[0].StoredName, after[0].StoredName)

	// The existing file survives and nothing new was staged on disk.
	entries, err := os.ReadDir(tc.Store.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, before[0].StoredName, entries[0].Name())
}

func TestUploadMediaUnknownCampaign(t *testing.T) {
	app, _, _ := contentApp(t)

	resp := uploadMedia(t, app, 999, func(w *multipart.Writer) {
		addMediaPart(t, w, "banner.png", "image/png", "png-bytes")
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteMediaRemovesRowAndFile(t *testing.T) {
	app, tc, campaign := contentApp(t)

	resp := uploadMedia(t, app, campaign.ID, func(w *multipart.Writer) {
		addMediaPart(t, w, "banner.png", "image/png", "png-bytes")
		addMediaPart(t, w, "teaser.mp4", "video/mp4", "mp4-bytes")
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var assets []models.MediaAsset
	require.NoError(t, tc.DB.Order("id ASC").Find(&assets).Error)
	require.Len(t, assets, 2)

	req := httptest.NewRequest(fiber.MethodDelete,
		fmt.Sprintf("/campaign-content/%d/media/%d", campaign.ID, assets[0].ID), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var remaining []models.MediaAsset
	require.NoError(t, tc.DB.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, assets[1].ID, remaining[0].ID)

	_, err = os.Stat(fmt.Sprintf("%s/%s", tc.Store.Dir(), assets[0].StoredName))
	assert.True(t, os.IsNotExist(err))
}
