package mirror

// Attach registers a connectionless client and returns its queue.
func (s *Server) Attach(buffer int) (<-chan []byte, bool) {
	c := &client{send: make(chan []byte, buffer)}

	return c.send, s.register(c)
}
