// Command qa-server runs the Q&A HTTP API.
//
// @title       Q&A Backend API
// @version     1.0
// @description In-memory questions and answers over HTTP.
// @BasePath    /
package main

func main() {
	Execute()
}
