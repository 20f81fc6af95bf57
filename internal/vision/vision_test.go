package vision

import (
	"encoding/json"
	"testing"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func poly(pts ...[2]int32) *visionpb.BoundingPoly {
	bp := &visionpb.BoundingPoly{}
	for _, p := range pts {
		bp.Vertices = append(bp.Vertices, &visionpb.Vertex{X: p[0], Y: p[1]})
	}
	return bp
}

func TestFromResponse(t *testing.T) {
	resp := &visionpb.AnnotateImageResponse{
		LabelAnnotations: []*visionpb.EntityAnnotation{
			{Description: "Cat"},
			{Description: "Whiskers"},
		},
		TextAnnotations: []*visionpb.EntityAnnotation{
			{Description: "HELLO\nWORLD"},
			{Description: "HELLO"},
		},
		FaceAnnotations: []*visionpb.FaceAnnotation{{
			DetectionConfidence: 0.75,
			JoyLikelihood:       visionpb.Likelihood_VERY_LIKELY,
			SorrowLikelihood:    visionpb.Likelihood_VERY_UNLIKELY,
			AngerLikelihood:     visionpb.Likelihood_UNLIKELY,
			SurpriseLikelihood:  visionpb.Likelihood_POSSIBLE,
			BoundingPoly:        poly([2]int32{10, 20}, [2]int32{110, 20}, [2]int32{110, 140}, [2]int32{10, 140}),
		}},
		LocalizedObjectAnnotations: []*visionpb.LocalizedObjectAnnotation{{
			Name:  "Cat",
			Score: 0.5,
			BoundingPoly: &visionpb.BoundingPoly{NormalizedVertices: []*visionpb.NormalizedVertex{
				{X: 0.25, Y: 0.125}, {X: 0.75, Y: 0.125}, {X: 0.75, Y: 0.5}, {X: 0.25, Y: 0.5},
			}},
		}},
		SafeSearchAnnotation: &visionpb.SafeSearchAnnotation{
			Adult:    visionpb.Likelihood_VERY_UNLIKELY,
			Violence: visionpb.Likelihood_UNLIKELY,
			Racy:     visionpb.Likelihood_POSSIBLE,
			Spoof:    visionpb.Likelihood_LIKELY,
		},
	}

	a := FromResponse(resp)
	assert.Equal(t, []string{"Cat", "Whiskers"}, a.Labels)
	require.NotNil(t, a.Text)
	assert.Equal(t, "HELLO\nWORLD", *a.Text)

	require.Len(t, a.Faces, 1)
	assert.Equal(t, Face{
		Confidence: 0.75,
		Joy:        "VERY_LIKELY",
		Sorrow:     "VERY_UNLIKELY",
		Anger:      "UNLIKELY",
		Surprise:   "POSSIBLE",
		Bounds:     PixelBounds{Left: 10, Top: 20, Right: 110, Bottom: 140},
	}, a.Faces[0])

	require.Len(t, a.Objects, 1)
	assert.Equal(t, "Cat", a.Objects[0].Name)
	assert.Equal(t, NormalizedBounds{Left: 0.25, Top: 0.125, Right: 0.75, Bottom: 0.5}, a.Objects[0].Bounds)

	assert.Equal(t, SafeSearch{Adult: "VERY_UNLIKELY", Violence: "UNLIKELY", Racy: "POSSIBLE", Spoof: "LIKELY"}, a.SafeSearch)
}

func TestFromResponseEmpty(t *testing.T) {
	a := FromResponse(&visionpb.AnnotateImageResponse{})
	assert.Nil(t, a.Text)
	assert.Equal(t, "UNKNOWN", a.SafeSearch.Adult)

	raw, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"labels": [],
		"text": null,
		"faces": [],
		"objects": [],
		"safe_search": {"adult": "UNKNOWN", "violence": "UNKNOWN", "racy": "UNKNOWN", "spoof": "UNKNOWN"}
	}`, string(raw))
}

func TestFromResponseShortPolygon(t *testing.T) {
	a := FromResponse(&visionpb.AnnotateImageResponse{
		FaceAnnotations: []*visionpb.FaceAnnotation{{BoundingPoly: poly([2]int32{1, 2})}},
	})
	require.Len(t, a.Faces, 1)
	assert.Equal(t, PixelBounds{}, a.Faces[0].Bounds)
}
