package nutrition

import "strings"

const (
	// SignalMinConfidence is the exclusive lower bound for objects that
	// contribute bounding-box areas to portion estimation.
	SignalMinConfidence = 0.5
	// TextMinConfidence is the exclusive lower bound for text snippets
	// scanned for nutrition-panel keywords.
	TextMinConfidence = 0.5
)

// panelKeywords mark words on a label or menu that may name a food.
var panelKeywords = []string{"calories", "protein", "carbs", "fat", "serving", "portion", "g", "gram", "oz", "ounce"}

// Label is a whole-image classification from the recognition provider.
type Label struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// BoundingBox is normalized to the image size (0..1).
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns width*height.
func (b BoundingBox) Area() float64 { return b.Width * b.Height }

// DetectedObject is a localized detection.
type DetectedObject struct {
	Name        string      `json:"name"`
	Confidence  float64     `json:"confidence"`
	BoundingBox BoundingBox `json:"bounding_box"`
}

// TextSnippet is a piece of text found in the image.
type TextSnippet struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// RecognitionOutput is everything the recognition provider returned for one image.
type RecognitionOutput struct {
	Labels  []Label          `json:"labels"`
	Objects []DetectedObject `json:"objects"`
	Text    []TextSnippet    `json:"text"`
}

// DetectedFood is a recognized label resolved to a canonical food.
type DetectedFood struct {
	Label      string   `json:"label"`
	Confidence float64  `json:"confidence"`
	Name       string   `json:"name"`
	BoxArea    *float64 `json:"box_area,omitempty"`
}

// Detection is the resolved form of a RecognitionOutput.
type Detection struct {
	Foods       []DetectedFood
	Unresolved  []string
	SizeSignals []float64
}

// Resolver maps free-text labels to reference table names.
type Resolver struct {
	table *Table
}

func NewResolver(t *Table) *Resolver {
	return &Resolver{table: t}
}

// Resolve returns the canonical name for label. An exact match wins; otherwise
// the first table entry (in table order) that contains the label or is
// contained by it is returned. Blank labels never match.
func (r *Resolver) Resolve(label string) (string, bool) {
	l := strings.ToLower(strings.TrimSpace(label))
	if l == "" {
		return "", false
	}
	if _, ok := r.table.index[l]; ok {
		return l, true
	}
	for _, f := range r.table.foods {
		if strings.Contains(l, f.Name) || strings.Contains(f.Name, l) {
			return f.Name, true
		}
	}
	return "", false
}

// Detect resolves labels, objects and text snippets. Foods are deduplicated by
// canonical name keeping the highest confidence; order is first appearance.
func (r *Resolver) Detect(out RecognitionOutput) Detection {
	var d Detection
	pos := map[string]int{}

	add := func(raw string, conf float64, area *float64) {
		name, ok := r.Resolve(raw)
		if !ok {
			d.Unresolved = append(d.Unresolved, raw)
			return
		}
		if i, seen := pos[name]; seen {
			if conf > d.Foods[i].Confidence {
				d.Foods[i].Label = raw
				d.Foods[i].Confidence = conf
				if area != nil {
					d.Foods[i].BoxArea = area
				}
			}
			return
		}
		pos[name] = len(d.Foods)
		d.Foods = append(d.Foods, DetectedFood{Label: raw, Confidence: conf, Name: name, BoxArea: area})
	}

	for _, l := range out.Labels {
		add(l.Name, l.Confidence, nil)
	}
	for _, o := range out.Objects {
		area := o.BoundingBox.Area()
		add(o.Name, o.Confidence, &area)
		if o.Confidence > SignalMinConfidence {
			d.SizeSignals = append(d.SizeSignals, area)
		}
	}
	for _, t := range out.Text {
		if t.Confidence <= TextMinConfidence {
			continue
		}
		for _, word := range strings.Fields(strings.ToLower(t.Text)) {
			if !hasPanelKeyword(word) {
				continue
			}
			if _, ok := r.Resolve(word); ok {
				add(word, t.Confidence, nil)
			}
		}
	}
	return d
}

func hasPanelKeyword(word string) bool {
	for _, k := range panelKeywords {
		if strings.Contains(word, k) {
			return true
		}
	}
	return false
}
