package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Theme holds color constants for the TUI.
type Theme struct {
	BgColor           tcell.Color
	FgColor           tcell.Color
	BorderColor       tcell.Color
	BorderFocusColor  tcell.Color
	TableHeaderFg     tcell.Color
	TableHeaderBg     tcell.Color
	TableCursorFg     tcell.Color
	TableCursorBg     tcell.Color
	CrumbActiveFg     tcell.Color
	CrumbActiveBg     tcell.Color
	CrumbInactiveFg   tcell.Color
	CrumbInactiveBg   tcell.Color
	MenuKeyColor      tcell.Color
	NumericKeyColor   tcell.Color
	TitleColor        tcell.Color
	CounterColor      tcell.Color
	FlashInfoColor    tcell.Color
	FlashWarnColor    tcell.Color
	FlashErrColor     tcell.Color
	PromptBorderColor tcell.Color
	UserMsgColor      tcell.Color
	AIMsgColor        tcell.Color
	TypingColor       tcell.Color
	BadgeColor        tcell.Color
	ToastFg           tcell.Color
	ToastBg           tcell.Color
	CallActiveColor   tcell.Color
	CallEndedColor    tcell.Color
}

// DefaultTheme returns a dark theme with WhatsApp-style greens.
func DefaultTheme() *Theme {
	return &Theme{
		BgColor:           tcell.ColorBlack,
		FgColor:           tcell.ColorSilver,
		BorderColor:       tcell.ColorSeaGreen,
		BorderFocusColor:  tcell.ColorMediumSpringGreen,
		TableHeaderFg:     tcell.ColorWhite,
		TableHeaderBg:     tcell.ColorBlack,
		TableCursorFg:     tcell.ColorBlack,
		TableCursorBg:     tcell.ColorMediumSeaGreen,
		CrumbActiveFg:     tcell.ColorBlack,
		CrumbActiveBg:     tcell.ColorMediumSpringGreen,
		CrumbInactiveFg:   tcell.ColorBlack,
		CrumbInactiveBg:   tcell.ColorDarkSeaGreen,
		MenuKeyColor:      tcell.ColorMediumSeaGreen,
		NumericKeyColor:   tcell.ColorFuchsia,
		TitleColor:        tcell.ColorMediumSpringGreen,
		CounterColor:      tcell.ColorPapayaWhip,
		FlashInfoColor:    tcell.ColorNavajoWhite,
		FlashWarnColor:    tcell.ColorOrange,
		FlashErrColor:     tcell.ColorOrangeRed,
		PromptBorderColor: tcell.ColorMediumSeaGreen,
		UserMsgColor:      tcell.ColorLightGreen,
		AIMsgColor:        tcell.ColorLightSkyBlue,
		TypingColor:       tcell.ColorGray,
		BadgeColor:        tcell.ColorLimeGreen,
		ToastFg:           tcell.ColorBlack,
		ToastBg:           tcell.ColorMediumSeaGreen,
		CallActiveColor:   tcell.ColorLimeGreen,
		CallEndedColor:    tcell.ColorOrangeRed,
	}
}

// ColorTag returns c as a tview color tag value. Unset colors map to "-",
// which resets to the default.
func ColorTag(c tcell.Color) string {
	if !c.Valid() {
		return "-"
	}
	return fmt.Sprintf("#%06x", c.Hex())
}
