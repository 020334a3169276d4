package planner

// Report is the serialisable form of a Plan.
type Report struct {
	Episode     string  `yaml:"episode"`
	TransitTime float64 `yaml:"transit_time"`
	Total       int     `yaml:"total"`
	Routes      []Route `yaml:"routes"`
	Units       []int   `yaml:"units,omitempty"`
	Stats       Stats   `yaml:"stats"`
}

// Route is one assignment of a Report.
type Route struct {
	Count     int          `yaml:"count"`
	Flow      float64      `yaml:"flow"`
	Cost      float64      `yaml:"cost"`
	Waypoints [][2]float64 `yaml:"waypoints,flow"`
	Target    [2]float64   `yaml:"target,flow"`
}

// Report converts p for output.
func (p *Plan) Report() Report {
	r := Report{
		Episode:     p.Episode.String(),
		TransitTime: p.TransitTime,
		Total:       p.Total(),
		Units:       p.Units,
		Stats:       p.Stats,
		Routes:      make([]Route, 0, len(p.Assignments)),
	}
	for _, a := range p.Assignments {
		route := Route{
			Count:  a.Count,
			Target: [2]float64{a.Target.X, a.Target.Y},
		}
		if a.Path != nil {
			route.Flow = a.Path.Flow()
			route.Cost = a.Path.Cost()
		}
		for _, w := range a.Waypoints {
			route.Waypoints = append(route.Waypoints, [2]float64{w.X, w.Y})
		}
		r.Routes = append(r.Routes, route)
	}

	return r
}
