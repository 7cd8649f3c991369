package game

// FieldState is shared by both sides.
type FieldState struct {
	Weather        Weather `json:"weather"`
	WeatherTurns   int     `json:"weather_turns"`
	TrickRoom      bool    `json:"trick_room"`
	TrickRoomTurns int     `json:"trick_room_turns"`
	Background     string  `json:"background"`
}

// SetWeather replaces the current weather and its counter. WeatherNone
// clears it.
func (f *FieldState) SetWeather(w Weather, turns int) {
	if w == WeatherNone || turns <= 0 {
		f.Weather, f.WeatherTurns = WeatherNone, 0
		return
	}
	f.Weather, f.WeatherTurns = w, turns
}

// ToggleTrickRoom starts trick room, or ends it when already active. It
// returns whether trick room is active afterwards.
func (f *FieldState) ToggleTrickRoom(turns int) bool {
	if f.TrickRoom {
		f.TrickRoom, f.TrickRoomTurns = false, 0
		return false
	}
	f.TrickRoom, f.TrickRoomTurns = true, turns
	return true
}

// FieldTick reports which effects ended on a Tick.
type FieldTick struct {
	WeatherEnded   Weather
	TrickRoomEnded bool
}

// Tick decrements the counters once for a completed turn. A counter that
// reaches zero clears its effect.
func (f *FieldState) Tick() FieldTick {
	var t FieldTick
	if f.Weather != WeatherNone {
		f.WeatherTurns--
		if f.WeatherTurns <= 0 {
			t.WeatherEnded = f.Weather
			f.Weather, f.WeatherTurns = WeatherNone, 0
		}
	}
	if f.TrickRoom {
		f.TrickRoomTurns--
		if f.TrickRoomTurns <= 0 {
			t.TrickRoomEnded = true
			f.TrickRoom, f.TrickRoomTurns = false, 0
		}
	}
	return t
}
