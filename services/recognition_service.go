package services

import (
	"context"
	"fmt"

	"github.com/hakimbdev/NutriSnap/nutrition"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"go.uber.org/zap"
)

// Recognizer turns image bytes into labels, localized objects and text.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (nutrition.RecognitionOutput, error)
}

// RekognitionAPI is the subset of the Rekognition client used here.
type RekognitionAPI interface {
	DetectLabels(ctx context.Context, in *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
	DetectText(ctx context.Context, in *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
}

type RekognitionService struct {
	client        RekognitionAPI
	maxLabels     int32
	minConfidence float32
	logger        *zap.Logger
}

func NewRekognitionService(client RekognitionAPI, maxLabels int32, minConfidence float32, logger *zap.Logger) *RekognitionService {
	return &RekognitionService{
		client:        client,
		maxLabels:     maxLabels,
		minConfidence: minConfidence,
		logger:        logger.Named("rekognition"),
	}
}

// Recognize runs label and text detection. Confidences are rescaled from
// Rekognition's 0..100 to 0..1. A failed label call is ErrRecognitionFailed;
// a failed text call only drops the text.
func (r *RekognitionService) Recognize(ctx context.Context, image []byte) (nutrition.RecognitionOutput, error) {
	img := &types.Image{Bytes: image}

	labels, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         img,
		MaxLabels:     aws.Int32(r.maxLabels),
		MinConfidence: aws.Float32(r.minConfidence),
	})
	if err != nil {
		return nutrition.RecognitionOutput{}, fmt.Errorf("%w: detect labels: %v", ErrRecognitionFailed, err)
	}

	out := nutrition.RecognitionOutput{}
	for _, l := range labels.Labels {
		name := aws.ToString(l.Name)
		out.Labels = append(out.Labels, nutrition.Label{Name: name, Confidence: percent(l.Confidence)})
		for _, in := range l.Instances {
			if in.BoundingBox == nil {
				continue
			}
			out.Objects = append(out.Objects, nutrition.DetectedObject{
				Name:       name,
				Confidence: percent(in.Confidence),
				BoundingBox: nutrition.BoundingBox{
					X:      float64(aws.ToFloat32(in.BoundingBox.Left)),
					Y:      float64(aws.ToFloat32(in.BoundingBox.Top)),
					Width:  float64(aws.ToFloat32(in.BoundingBox.Width)),
					Height: float64(aws.ToFloat32(in.BoundingBox.Height)),
				},
			})
		}
	}

	text, err := r.client.DetectText(ctx, &rekognition.DetectTextInput{Image: img})
	if err != nil {
		r.logger.Warn("text detection failed", zap.Error(err))
		return out, nil
	}
	for _, t := range text.TextDetections {
		if t.Type != types.TextTypesLine {
			continue
		}
		out.Text = append(out.Text, nutrition.TextSnippet{Text: aws.ToString(t.DetectedText), Confidence: percent(t.Confidence)})
	}
	return out, nil
}

func percent(v *float32) float64 {
	return float64(aws.ToFloat32(v)) / 100
}
