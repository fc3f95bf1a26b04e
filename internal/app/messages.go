package app

// Messages is the catalog of fixed utterances the host speaks around the
// question prompts. The defaults are the Korean scripts of the original
// phonological-processing assessment; hosts may override individual fields.
type Messages struct {
	// Welcome opens the guided onboarding and asks for a speaker tap.
	Welcome string

	// Praise acknowledges the speaker tap.
	Praise string

	// MicGuide explains the microphone control and asks for a mic tap.
	MicGuide string

	// WrapUp closes the onboarding and points at the proceed control.
	WrapUp string

	// Correct and Incorrect are the immediate practice-feedback lines.
	Correct   string
	Incorrect string

	// PracticeDone follows the Correct line on the final practice item and
	// points at the scored-items control.
	PracticeDone string

	// Completion plays after the final scored item's recording, before the
	// results view is offered.
	Completion string
}

// DefaultMessages returns the original assessment scripts.
func DefaultMessages() Messages {
	return Messages{
		Welcome:      "지금부터 음운처리능력 검사를 안내합니다. 첫째, 묻는 말을 다시 듣고 싶으면 스피커 모양을 누르면 됩니다. 지금 눌러 보세요.",
		Praise:       "잘 했습니다.",
		MicGuide:     "둘째, 묻는 말에 답을 할 때는 마이크 모양을 누릅니다. 그리고 잠시 후 답을 말하고, 말이 끝나면 멈춤 버튼을 누르면 됩니다. 마이크 모양을 눌러 보세요.",
		WrapUp:       "모두 잘 했습니다. 준비가 다 되었으면 연습1로 이동 버튼을 눌러 주세요.",
		Correct:      "정답입니다.",
		Incorrect:    "다시 생각해 보세요.",
		PracticeDone: "본 문항으로 이동하려면 아래 본 문항으로 이동 버튼을 눌러 주세요.",
		Completion:   "검사가 모두 끝났습니다. 검사 결과를 보려면 아래 검사 결과 보기 버튼을 눌러 주세요. 수고했습니다.",
	}
}

// merged returns m with empty fields filled from the defaults.
func (m Messages) merged() Messages {
	def := DefaultMessages()
	if m.Welcome == "" {
		m.Welcome = def.Welcome
	}
	if m.Praise == "" {
		m.Praise = def.Praise
	}
	if m.MicGuide == "" {
		m.MicGuide = def.MicGuide
	}
	if m.WrapUp == "" {
		m.WrapUp = def.WrapUp
	}
	if m.Correct == "" {
		m.Correct = def.Correct
	}
	if m.Incorrect == "" {
		m.Incorrect = def.Incorrect
	}
	if m.PracticeDone == "" {
		m.PracticeDone = def.PracticeDone
	}
	if m.Completion == "" {
		m.Completion = def.Completion
	}
	return m
}
