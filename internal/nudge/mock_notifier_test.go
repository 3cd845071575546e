package nudge

type mockNotifier struct {
	called bool
	habits []string
	day    string
	err    error
}

func (m *mockNotifier) SendNudge(habits []string, day string) error {
	m.called = true
	m.habits = habits
	m.day = day
	return m.err
}
