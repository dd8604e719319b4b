// Package gemini はGoogle Gemini APIを使用した位置推定クライアントを提供します。
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"sign_backend/internal/feature/signanalysis/domain"
	"sign_backend/internal/feature/signanalysis/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"

	// UnknownLocation は位置を特定できない場合にモデルへ返させる固定文言です。
	UnknownLocation = "No se pudo determinar una ubicación específica"

	// LocationPromptTemplate は位置推定のプロンプトテンプレートです。%s に標識のテキストがそのまま入ります。
	LocationPromptTemplate = `Eres un asistente de geolocalización.
Te voy a dar el texto extraído de una señal de tráfico o de una calle.
Tu trabajo es identificar la ubicación (ciudad, país, lugar específico)
y devolver una descripción muy breve (máximo 2 frases).

Si el texto es ambiguo o no parece una ubicación (ej: "STOP"),
simplemente di "` + UnknownLocation + `".

Texto de la señal: "%s"`
)

// ContentGenerator はGemini APIのコンテンツ生成操作です（*genai.Models が実装します）。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiLocationInferer はGoogle Gemini APIを使用して標識のテキストから位置を推定します。
// 生成器がnilの場合は未設定モードで動作し、全ての呼び出しが domain.ErrInferenceNotConfigured を返します。
type GeminiLocationInferer struct {
	generator ContentGenerator
	model     string
}

// GeminiLocationInfererがLocationInfererを実装していることをコンパイル時に検証します。
var _ usecase.LocationInferer = (*GeminiLocationInferer)(nil)

// NewGeminiLocationInferer はGemini APIキーでクライアントを生成します。
// キーが空、またはクライアント生成に失敗した場合はエラーを返さず未設定モードになります。
func NewGeminiLocationInferer(ctx context.Context, apiKey, model string, httpClient *http.Client) *GeminiLocationInferer {
	if apiKey == "" {
		slog.Warn("GEMINI_API_KEY is not set. Location inference is disabled.")
		return NewLocationInferer(nil, model)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		slog.Error("failed to create gemini client. Location inference is disabled.", "error", err)
		return NewLocationInferer(nil, model)
	}
	return NewLocationInferer(client.Models, model)
}

// NewLocationInferer は指定された生成器でGeminiLocationInfererを生成します。
func NewLocationInferer(generator ContentGenerator, model string) *GeminiLocationInferer {
	if model == "" {
		model = DefaultModel
	}
	return &GeminiLocationInferer{generator: generator, model: model}
}

// Enabled は位置推定が利用可能かどうかを返します。
func (g *GeminiLocationInferer) Enabled() bool {
	return g.generator != nil
}

// InferLocation はテキストを埋め込んだプロンプトを送信し、応答を前後の空白を除いてそのまま返します。
func (g *GeminiLocationInferer) InferLocation(ctx context.Context, text string) (string, error) {
	if g.generator == nil {
		return "", domain.ErrInferenceNotConfigured
	}

	resp, err := g.generator.GenerateContent(ctx, g.model, genai.Text(BuildPrompt(text)), nil)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}

	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", errors.New("gemini returned an empty response")
	}
	slog.Info("Geminiで位置を推定", "text", text, "model", g.model)
	return out, nil
}

// BuildPrompt は標識のテキストをテンプレートに埋め込みます。
func BuildPrompt(text string) string {
	return fmt.Sprintf(LocationPromptTemplate, text)
}
