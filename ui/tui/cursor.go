package tui

import "minerdash/internal/output"

// gridCursor indexes view.Sections and that section's Ports.
type gridCursor struct {
	Section int
	Port    int
}

// clamp moves the cursor onto an existing port, or to the first one if it fell off.
func (c gridCursor) clamp(v output.DashboardView) gridCursor {
	if c.Section >= 0 && c.Section < len(v.Sections) {
		n := len(v.Sections[c.Section].Ports)
		if n > 0 {
			if c.Port >= n {
				c.Port = n - 1
			}
			if c.Port < 0 {
				c.Port = 0
			}
			return c
		}
	}
	if i := nextSection(v, -1, 1); i >= 0 {
		return gridCursor{Section: i}
	}
	return gridCursor{}
}

// move steps dx ports, crossing into neighbouring sections, or dy sections, keeping the column when possible.
func (c gridCursor) move(v output.DashboardView, dx, dy int) gridCursor {
	c = c.clamp(v)
	if _, ok := c.port(v); !ok {
		return c
	}

	if dy != 0 {
		if i := nextSection(v, c.Section, dy); i >= 0 {
			c.Section = i
			if n := len(v.Sections[i].Ports); c.Port >= n {
				c.Port = n - 1
			}
		}
		return c
	}

	c.Port += dx
	switch {
	case c.Port < 0:
		if i := nextSection(v, c.Section, -1); i >= 0 {
			return gridCursor{Section: i, Port: len(v.Sections[i].Ports) - 1}
		}
		c.Port = 0
	case c.Port >= len(v.Sections[c.Section].Ports):
		if i := nextSection(v, c.Section, 1); i >= 0 {
			return gridCursor{Section: i}
		}
		c.Port = len(v.Sections[c.Section].Ports) - 1
	}
	return c
}

func (c gridCursor) port(v output.DashboardView) (*output.Port, bool) {
	if c.Section < 0 || c.Section >= len(v.Sections) {
		return nil, false
	}
	ports := v.Sections[c.Section].Ports
	if c.Port < 0 || c.Port >= len(ports) {
		return nil, false
	}
	return &ports[c.Port], true
}

// nextSection finds the next section after from, in direction dir, that has ports. -1 if none.
func nextSection(v output.DashboardView, from, dir int) int {
	for i := from + dir; i >= 0 && i < len(v.Sections); i += dir {
		if len(v.Sections[i].Ports) > 0 {
			return i
		}
	}
	return -1
}
