// Package encoder runs the CLIP vision model to turn decoded images into
// embedding vectors. Inference goes through onnxruntime with pre-allocated
// input and output tensors, so a mutex serializes Run calls.
package encoder

import (
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	ort "github.com/yalue/onnxruntime_go"

	"imagesim/internal/config"
)

const (
	inputSize = 224
	channels  = 3
)

// CLIP image preprocessing constants (RGB order).
var (
	clipMean = [channels]float32{0.48145466, 0.4578275, 0.40821073}
	clipStd  = [channels]float32{0.26862954, 0.26130258, 0.27577711}
)

// CLIPEncoder produces normalized image embeddings from a CLIP vision
// encoder exported to ONNX.
type CLIPEncoder struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	dim     int
	once    sync.Once
}

func NewCLIPEncoder(cfg *config.Config) (*CLIPEncoder, error) {
	if cfg.OnnxRuntimeLibPath != "" {
		ort.SetSharedLibraryPath(cfg.OnnxRuntimeLibPath)
	}

	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("init onnx: %w", err)
	}

	inputShape := ort.NewShape(1, channels, inputSize, inputSize)
	outputShape := ort.NewShape(1, int64(cfg.EmbeddingDim))

	input, err := ort.NewTensor(inputShape, make([]float32, channels*inputSize*inputSize))
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}

	output, err := ort.NewTensor(outputShape, make([]float32, cfg.EmbeddingDim))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		cfg.ModelPath,
		[]string{"pixel_values"},
		[]string{"image_embeds"},
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{output},
		nil,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &CLIPEncoder{
		session: session,
		input:   input,
		output:  output,
		dim:     cfg.EmbeddingDim,
	}, nil
}

// Encode preprocesses the image and runs a single inference pass. The
// returned vector is L2-normalized and safe for the caller to retain.
func (e *CLIPEncoder) Encode(img image.Image) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	preprocess(img, e.input.GetData())

	if err := e.session.Run(); err != nil {
		return nil, fmt.Errorf("inference: %w", err)
	}

	embedding := make([]float32, e.dim)
	copy(embedding, e.output.GetData())
	normalize(embedding)

	return embedding, nil
}

func (e *CLIPEncoder) Dimensions() int {
	return e.dim
}

func (e *CLIPEncoder) Close() {
	e.once.Do(func() {
		e.session.Destroy()
		e.input.Destroy()
		e.output.Destroy()
		ort.DestroyEnvironment()
	})
}

// preprocess center-crops the image to 224x224, scales pixels to [0,1]
// and applies the CLIP channel normalization into dst laid out CHW.
func preprocess(img image.Image, dst []float32) {
	resized := imaging.Fill(img, inputSize, inputSize, imaging.Center, imaging.Lanczos)

	plane := inputSize * inputSize
	for y := 0; y < inputSize; y++ {
		for x := 0; x < inputSize; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			idx := y*inputSize + x
			dst[idx] = (float32(r)/65535.0 - clipMean[0]) / clipStd[0]
			dst[plane+idx] = (float32(g)/65535.0 - clipMean[1]) / clipStd[1]
			dst[2*plane+idx] = (float32(b)/65535.0 - clipMean[2]) / clipStd[2]
		}
	}
}

func normalize(v []float32) {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	norm := float32(math.Sqrt(sum))
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}
