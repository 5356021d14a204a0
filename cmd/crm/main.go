// Command crm runs the feedback CRM API and its maintenance tasks.
package main

func main() {
	Execute()
}
