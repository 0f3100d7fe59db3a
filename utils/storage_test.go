package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaignboard/models"
)

func TestClassifyMedia(t *testing.T) {
	mediaType, err := ClassifyMedia("image/png")
	require.NoError(t, err)
	assert.Equal(t, models.MediaTypeImage, mediaType)

	mediaType, err = ClassifyMedia("video/mp4")
	require.NoError(t, err)
	assert.Equal(t, models.MediaTypeVideo, mediaType)

	_, err = ClassifyMedia("application/pdf")
	assert.Error(t, err)

	_, err = ClassifyMedia("")
	assert.Error(t, err)
}
