package entity

// LocationNotSearched はテキスト未検出のため位置推定を行わなかった場合の固定値です。
const LocationNotSearched = "No se buscó ubicación (no se detectó texto)."

// AnalysisResult は1リクエスト分の解析結果です。保持されません。
type AnalysisResult struct {
	ImageSource  string       // 保存先の参照 ("s3://bucket/key")
	DetectedText DetectedText // 抽出テキストまたは NoTextDetected
	LocationInfo string       // 位置の説明、未検索の固定値、またはエラー文字列
}
