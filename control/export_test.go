package control

// SetMode forces the controller into m, valid or not.
func (c *Controller) SetMode(m Mode) { c.state.Mode = m }
