package imagegen

import (
	"sort"
	"strings"
)

// Options selects the scene a mockup is rendered into.
type Options struct {
	Description string // the wrap itself, e.g. "matte black with gold pinstripe"
	Lighting    string
	Background  string
	Angle       string
}

const defaultDescription = "custom vinyl wrap design with bold graphics"

var lightingPrompts = map[string]string{
	"showroom":    "white studio background, perfect three-point studio lighting, clean seamless white floor, showroom quality photography",
	"daylight":    "outdoors on a clear sunny day, natural bright sunlight, vivid blue sky with scattered clouds",
	"overcast":    "outdoors overcast day, soft diffuse even lighting, no harsh shadows, diffused natural light",
	"golden_hour": "golden hour sunset, warm orange and amber light, long dramatic shadows, magic hour photography",
	"night":       "night scene, vehicle headlights and taillights glowing, dramatic dark environment, moody night photography",
}

var backgroundPrompts = map[string]string{
	"studio":      "seamless white studio backdrop, reflective polished floor",
	"city_street": "urban city street, downtown buildings, road surface, city environment",
	"dealership":  "car dealership exterior lot, automotive showroom setting",
	"custom":      "",
}

var anglePrompts = map[string]string{
	"original":      "",
	"front":         "front view facing camera, head-on angle",
	"side":          "driver side profile view, full broadside angle, lateral view",
	"rear":          "rear view, back of vehicle facing camera",
	"three_quarter": "dynamic three-quarter front angle, 45-degree perspective",
}

// Lightings, Backgrounds and Angles list the preset names accepted in
// [Options], sorted.
func Lightings() []string   { return keys(lightingPrompts) }
func Backgrounds() []string { return keys(backgroundPrompts) }
func Angles() []string      { return keys(anglePrompts) }

// BuildPrompt expands o into a generation prompt. Unknown lighting and
// background names fall back to the showroom and studio presets; an
// unknown angle adds nothing.
func BuildPrompt(o Options) string {
	desc := strings.TrimSpace(o.Description)
	if desc == "" {
		desc = defaultDescription
	}
	lighting, ok := lightingPrompts[o.Lighting]
	if !ok {
		lighting = lightingPrompts["showroom"]
	}
	background, ok := backgroundPrompts[o.Background]
	if !ok {
		background = backgroundPrompts["studio"]
	}

	parts := []string{
		"photorealistic professional vehicle wrap render",
		desc,
		anglePrompts[o.Angle],
		lighting,
		background,
		"DSLR photography, ultra sharp, 8k resolution, commercial automotive photography",
	}
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
