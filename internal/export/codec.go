package export

import (
	"context"
	"strings"

	"voicecut/internal/domain"
)

// Codec is one capture encoder candidate.
type Codec struct {
	Name      string
	Extension string
}

// codecPreference is the ordered fidelity preference; the last entry is the
// generic fallback container.
var codecPreference = []Codec{
	{Name: "libx264", Extension: ".mp4"},
	{Name: "libvpx-vp9", Extension: ".webm"},
	{Name: "mpeg4", Extension: ".mp4"},
}

// selectCodec picks the most preferred encoder the local ffmpeg build
// supports, probing its encoder list once.
func selectCodec(ctx context.Context, runner commandRunner, ffmpegPath string) (Codec, error) {
	result, err := runner.Run(ctx, ffmpegPath, "-hide_banner", "-encoders")
	if err != nil {
		return Codec{}, domain.WrapError(domain.KindMediaAcquisitionFailed, err,
			"cannot list ffmpeg encoders")
	}

	codec, ok := pickSupported(result.Stdout)
	if !ok {
		return Codec{}, domain.NewError(domain.KindUnsupportedCodec,
			"none of the preferred encoders (%s) are available", preferenceNames())
	}
	return codec, nil
}

// pickSupported matches the preference list against `ffmpeg -encoders`
// output. Encoder names appear as their own whitespace-delimited token.
func pickSupported(encodersOutput string) (Codec, bool) {
	available := make(map[string]bool)
	for _, line := range strings.Split(encodersOutput, "\n") {
		fields := strings.Fields(line)
		// "V..... libx264   H.264 ...": the name is the second field.
		if len(fields) >= 2 {
			available[fields[1]] = true
		}
	}

	for _, candidate := range codecPreference {
		if available[candidate.Name] {
			return candidate, true
		}
	}
	return Codec{}, false
}

// preferenceNames renders the candidate list for error messages.
func preferenceNames() string {
	names := make([]string, len(codecPreference))
	for i, c := range codecPreference {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}
