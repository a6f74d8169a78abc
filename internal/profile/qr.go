package profile

import (
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// CardContent is the MECARD payload encoded in the profile QR code.
func (p UserProfile) CardContent() string {
	esc := strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, ":", `\:`)
	var sb strings.Builder
	sb.WriteString("MECARD:N:" + esc.Replace(p.Name) + ";")
	if p.Status != "" {
		sb.WriteString("NOTE:" + esc.Replace(p.Status) + ";")
	}
	if p.Avatar != "" {
		sb.WriteString("URL:" + esc.Replace(p.Avatar) + ";")
	}
	sb.WriteString(";")
	return sb.String()
}

// QRCard renders the profile as a QR code drawn with half-block characters,
// two modules per terminal row.
func (p UserProfile) QRCard() (string, error) {
	qr, err := qrcode.New(p.CardContent(), qrcode.Low)
	if err != nil {
		return "", err
	}
	return renderBitmap(qr.Bitmap()), nil
}

func renderBitmap(bitmap [][]bool) string {
	rows := len(bitmap)
	cols := 0
	if rows > 0 {
		cols = len(bitmap[0])
	}

	var sb strings.Builder
	for y := 0; y < rows; y += 2 {
		sb.WriteString("  ")
		for x := range cols {
			top := bitmap[y][x]
			bot := y+1 < rows && bitmap[y+1][x]
			switch {
			case top && bot:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bot:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
