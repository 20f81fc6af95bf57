// Package vision analyzes images with the Google Cloud Vision API.
package vision

import (
	"context"
	"errors"
	"fmt"
	"os"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// Analysis is the client-facing result of one image analysis.
type Analysis struct {
	Labels     []string   `json:"labels"`
	Text       *string    `json:"text"`
	Faces      []Face     `json:"faces"`
	Objects    []Object   `json:"objects"`
	SafeSearch SafeSearch `json:"safe_search"`
}

// Face bounds are pixel coordinates.
type Face struct {
	Confidence float32     `json:"confidence"`
	Joy        string      `json:"joy"`
	Sorrow     string      `json:"sorrow"`
	Anger      string      `json:"anger"`
	Surprise   string      `json:"surprise"`
	Bounds     PixelBounds `json:"bounds"`
}

type PixelBounds struct {
	Left   int32 `json:"left"`
	Top    int32 `json:"top"`
	Right  int32 `json:"right"`
	Bottom int32 `json:"bottom"`
}

// Object bounds are normalized to [0, 1].
type Object struct {
	Name       string           `json:"name"`
	Confidence float32          `json:"confidence"`
	Bounds     NormalizedBounds `json:"bounds"`
}

type NormalizedBounds struct {
	Left   float32 `json:"left"`
	Top    float32 `json:"top"`
	Right  float32 `json:"right"`
	Bottom float32 `json:"bottom"`
}

// SafeSearch fields hold likelihood names such as "VERY_UNLIKELY".
type SafeSearch struct {
	Adult    string `json:"adult"`
	Violence string `json:"violence"`
	Racy     string `json:"racy"`
	Spoof    string `json:"spoof"`
}

type Analyzer interface {
	Analyze(ctx context.Context, image []byte) (*Analysis, error)
}

var features = []*visionpb.Feature{
	{Type: visionpb.Feature_LABEL_DETECTION},
	{Type: visionpb.Feature_TEXT_DETECTION},
	{Type: visionpb.Feature_FACE_DETECTION},
	{Type: visionpb.Feature_OBJECT_LOCALIZATION},
	{Type: visionpb.Feature_SAFE_SEARCH_DETECTION},
}

// Google runs every detection in a single BatchAnnotateImages call.
type Google struct {
	client *vision.ImageAnnotatorClient
}

// NewGoogle creates a Vision client. credentialsFile is used when it exists;
// otherwise application default credentials apply.
func NewGoogle(ctx context.Context, credentialsFile string) (*Google, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		if _, err := os.Stat(credentialsFile); err == nil {
			opts = append(opts, option.WithCredentialsFile(credentialsFile))
		}
	}
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &Google{client: client}, nil
}

func (g *Google) Analyze(ctx context.Context, image []byte) (*Analysis, error) {
	resp, err := g.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image:    &visionpb.Image{Content: image},
			Features: features,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("annotate image: %w", err)
	}
	if len(resp.GetResponses()) == 0 {
		return nil, errors.New("annotate image: empty response")
	}
	r := resp.GetResponses()[0]
	if st := r.GetError(); st != nil && st.GetCode() != 0 {
		return nil, fmt.Errorf("annotate image: %s", st.GetMessage())
	}
	return FromResponse(r), nil
}

func (g *Google) Close() error {
	return g.client.Close()
}

// FromResponse shapes a raw annotation into an Analysis. Slices are never
// nil so they encode as [].
func FromResponse(r *visionpb.AnnotateImageResponse) *Analysis {
	a := &Analysis{
		Labels:  make([]string, 0, len(r.GetLabelAnnotations())),
		Faces:   make([]Face, 0, len(r.GetFaceAnnotations())),
		Objects: make([]Object, 0, len(r.GetLocalizedObjectAnnotations())),
	}

	for _, l := range r.GetLabelAnnotations() {
		a.Labels = append(a.Labels, l.GetDescription())
	}

	// The first text annotation holds the full detected text.
	if ta := r.GetTextAnnotations(); len(ta) > 0 {
		text := ta[0].GetDescription()
		a.Text = &text
	}

	for _, f := range r.GetFaceAnnotations() {
		face := Face{
			Confidence: f.GetDetectionConfidence(),
			Joy:        f.GetJoyLikelihood().String(),
			Sorrow:     f.GetSorrowLikelihood().String(),
			Anger:      f.GetAngerLikelihood().String(),
			Surprise:   f.GetSurpriseLikelihood().String(),
		}
		if v := f.GetBoundingPoly().GetVertices(); len(v) >= 3 {
			face.Bounds = PixelBounds{
				Left:   v[0].GetX(),
				Top:    v[0].GetY(),
				Right:  v[2].GetX(),
				Bottom: v[2].GetY(),
			}
		}
		a.Faces = append(a.Faces, face)
	}

	for _, o := range r.GetLocalizedObjectAnnotations() {
		obj := Object{Name: o.GetName(), Confidence: o.GetScore()}
		if v := o.GetBoundingPoly().GetNormalizedVertices(); len(v) >= 3 {
			obj.Bounds = NormalizedBounds{
				Left:   v[0].GetX(),
				Top:    v[0].GetY(),
				Right:  v[2].GetX(),
				Bottom: v[2].GetY(),
			}
		}
		a.Objects = append(a.Objects, obj)
	}

	ss := r.GetSafeSearchAnnotation()
	a.SafeSearch = SafeSearch{
		Adult:    ss.GetAdult().String(),
		Violence: ss.GetViolence().String(),
		Racy:     ss.GetRacy().String(),
		Spoof:    ss.GetSpoof().String(),
	}
	return a
}
