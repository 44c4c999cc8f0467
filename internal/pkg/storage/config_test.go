package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	c := &Config{}
	key := c.ObjectKey("vehicle_alerts", "3f2c9a10-1111-2222-3333-444455556666", "jpg", 2026, 8)
	assert.Equal(t, "evidence/vehicle_alerts/2026/08/3f2c9a10-1111-2222-3333-444455556666.jpg", key)

	// Extension with a leading dot is not doubled.
	key = c.ObjectKey("crime_reports", "abc", ".png", 2026, 12)
	assert.Equal(t, "evidence/crime_reports/2026/12/abc.png", key)
}

func TestKeyFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "virtual host url",
			url:  "https://bucket.s3.af-south-1.amazonaws.com/evidence/crime_reports/2026/08/abc.jpg",
			want: "evidence/crime_reports/2026/08/abc.jpg",
		},
		{
			name: "path style endpoint",
			url:  "https://minio.local:9000/bucket/evidence/vehicle_alerts/2026/01/x.webp",
			want: "evidence/vehicle_alerts/2026/01/x.webp",
		},
		{
			name: "cdn base",
			url:  "https://cdn.example.org/evidence/crime_reports/2025/11/y.png",
			want: "evidence/crime_reports/2025/11/y.png",
		},
		{
			name: "foreign url",
			url:  "https://example.org/uploads/other.jpg",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyFromURL(tt.url))
		})
	}
}

func TestObjectURL(t *testing.T) {
	key := "evidence/vehicle_alerts/2026/08/abc.jpg"

	c := &Config{BucketName: "safesuburb", Region: "af-south-1"}
	assert.Equal(t, "https://safesuburb.s3.af-south-1.amazonaws.com/"+key, c.ObjectURL(key))

	c.EndpointURL = "https://minio.local:9000/"
	assert.Equal(t, "https://minio.local:9000/safesuburb/"+key, c.ObjectURL(key))

	c.PublicBaseURL = "https://cdn.example.org/"
	assert.Equal(t, "https://cdn.example.org/"+key, c.ObjectURL(key))

	// Every generated URL maps back to its key.
	assert.Equal(t, key, KeyFromURL(c.ObjectURL(key)))
}
