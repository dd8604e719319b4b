package entity

import "strings"

// DetectedText は画像から抽出された正規化済みテキストです。
// 空でない文字列か、NoTextDetected のいずれかのみを取ります。
type DetectedText string

// NoTextDetected はテキストが検出されなかったことを示す固定値です。
const NoTextDetected DetectedText = "No se ha detectado texto."

// TextType は検出結果の粒度です。
type TextType string

const (
	TextTypeLine TextType = "LINE"
	TextTypeWord TextType = "WORD"
)

// TextDetection はOCRが返す1件の検出結果です。
type TextDetection struct {
	Text string
	Type TextType
}

// NewDetectedText はLINE粒度の検出結果のみを返却順に半角スペースで連結します。
// 連結結果が空の場合は NoTextDetected を返します。
func NewDetectedText(detections []TextDetection) DetectedText {
	lines := make([]string, 0, len(detections))
	for _, d := range detections {
		if d.Type != TextTypeLine {
			continue
		}
		if t := strings.TrimSpace(d.Text); t != "" {
			lines = append(lines, t)
		}
	}
	if len(lines) == 0 {
		return NoTextDetected
	}
	return DetectedText(strings.Join(lines, " "))
}

// Found はテキストが検出されたかどうかを返します。
func (t DetectedText) Found() bool {
	return t != NoTextDetected
}

func (t DetectedText) String() string {
	return string(t)
}
