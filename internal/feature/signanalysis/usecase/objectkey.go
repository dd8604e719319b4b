package usecase

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// UploadPrefix はアップロード画像のオブジェクトキーの名前空間です。
const UploadPrefix = "uploads/"

// NewObjectKey は "uploads/<uuid>_<filename>" 形式の一意なオブジェクトキーを生成します。
// 同じファイル名でもリクエストごとに異なるキーになります。
func NewObjectKey(filename string) string {
	return UploadPrefix + uuid.NewString() + "_" + sanitizeFilename(filename)
}

// sanitizeFilename はパス区切りを取り除き、キーに使えない文字を "_" に置き換えます。
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return "image"
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
