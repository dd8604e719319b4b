// Package entity はsignanalysisフィーチャーのドメインモデルを定義します。
package entity

import "fmt"

// UploadRequest はクライアントからアップロードされた画像を表します。
type UploadRequest struct {
	ImageData   []byte // 画像のバイト列
	Filename    string // 元のファイル名（ストレージキーの接尾辞にのみ使用）
	ContentType string // 保存時のContent-Type（空の場合はストア側の既定値）
}

// StoredImageRef はオブジェクトストアに保存された画像への参照です。
// 書き込み成功後にのみ生成され、リクエスト間で再利用されません。
type StoredImageRef struct {
	Store  string // ストア種別（例: "s3"）
	Bucket string // バケット名
	Key    string // 一意なオブジェクトキー
}

// URI は "<store>://<bucket>/<key>" 形式の参照文字列を返します。
func (r StoredImageRef) URI() string {
	return fmt.Sprintf("%s://%s/%s", r.Store, r.Bucket, r.Key)
}
