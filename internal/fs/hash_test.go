package fs

import "testing"

const helloWorldSHA256 = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

func TestDigest(t *testing.T) {
	if got := Digest([]byte("hello world")); got != helloWorldSHA256 {
		t.Fatalf("digest = %s; want %s", got, helloWorldSHA256)
	}
	if got := Digest(nil); got != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Fatalf("empty digest = %s", got)
	}
}
