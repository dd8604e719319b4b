package usecase_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"sign_backend/internal/feature/signanalysis/usecase"
)

func TestNewObjectKey_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		filename       string
		expectedSuffix string
	}{
		{name: "plain filename", filename: "sign.jpg", expectedSuffix: "_sign.jpg"},
		{name: "spaces are replaced", filename: "my sign.png", expectedSuffix: "_my_sign.png"},
		{name: "directories are stripped", filename: "../../etc/passwd", expectedSuffix: "_passwd"},
		{name: "windows path", filename: `C:\fotos\calle.jpg`, expectedSuffix: "_calle.jpg"},
		{name: "non ascii characters", filename: "señal.jpg", expectedSuffix: "_se_al.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			key := usecase.NewObjectKey(tt.filename)

			assert.True(t, strings.HasPrefix(key, "uploads/"), "key %q", key)
			assert.True(t, strings.HasSuffix(key, tt.expectedSuffix), "key %q", key)
			// uploads/ + 36文字のUUID + "_"
			id := strings.TrimPrefix(key, "uploads/")[:36]
			assert.Len(t, strings.Split(id, "-"), 5)
		})
	}
}

func TestNewObjectKey_UniqueUnderConcurrency(t *testing.T) {
	t.Parallel()

	const n = 200
	keys := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			keys <- usecase.NewObjectKey("sign.jpg")
		}()
	}
	wg.Wait()
	close(keys)

	seen := make(map[string]struct{}, n)
	for k := range keys {
		_, dup := seen[k]
		assert.False(t, dup, "duplicate key %q", k)
		seen[k] = struct{}{}
	}
	assert.Len(t, seen, n)
}
