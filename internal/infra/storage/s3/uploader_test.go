package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectURLNormalizesSlashes(t *testing.T) {
	c := &Client{bucket: "stuverse", publicBaseURL: "http://cdn.campus.edu/"}

	assert.Equal(t, "http://cdn.campus.edu/stuverse/listings/a.png", c.objectURL("listings/a.png"))
	assert.Equal(t, "http://cdn.campus.edu/stuverse/listings/a.png", c.objectURL("/listings/a.png"))

	c.publicBaseURL = "http://cdn.campus.edu"
	assert.Equal(t, "http://cdn.campus.edu/stuverse/listings/a.png", c.objectURL("listings/a.png"))
}
