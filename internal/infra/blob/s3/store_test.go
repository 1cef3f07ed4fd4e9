package s3

import (
	"context"
	"testing"

	"todoapi/internal/blob/blobtest"
	"todoapi/internal/blob/core"
)

func TestS3Contract(t *testing.T) {
	store := NewMockForTests()
	if store.Driver() != core.DriverS3 || store.Bucket() != "mock-bucket" {
		t.Fatalf("unexpected store identity %s/%s", store.Driver(), store.Bucket())
	}
	blobtest.Run(t, store)
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected bucket error")
	}
}

func TestDecodeChunked(t *testing.T) {
	cases := map[string]string{
		"7;chunk-signature=abc\r\n{\"a\":1}\r\n0\r\nx-amz-checksum-crc32:AAAA\r\n\r\n": `{"a":1}`,
		"3\r\nabc\r\n2\r\nde\r\n0\r\n\r\n":                                        "abcde",
		"zz\r\n": "",
	}
	for in, want := range cases {
		if got := string(decodeChunked([]byte(in))); got != want {
			t.Fatalf("decodeChunked(%q) = %q, want %q", in, got, want)
		}
	}
}
