// Package config loads floatkit's YAML files: the project file
// (floatkit.yaml) that configures the dev server and CLI, and scenario files
// that declare widgets, a page of elements and the steps to drive them.
//
// # Project File
//
//	name: menus
//	scenarios: scenarios
//	logLevel: info
//	dev:
//	  host: localhost
//	  port: 7070
//	  metrics: true
//
// # Scenario File
//
//	name: escape closes the menu
//	widgets:
//	  - name: menu
//	    kind: popover
//	    positioning:
//	      placement: bottom-start
//	    preventScroll: true
//	elements:
//	  - name: button
//	    widget: menu
//	    part: trigger
//	    rect: {x: 10, y: 10, width: 80, height: 24}
//	  - name: panel
//	    widget: menu
//	    part: content
//	    rect: {width: 200, height: 120}
//	steps:
//	  - click: button
//	  - flush: true
//	  - key: Escape
//	  - flush: true
//	  - expect:
//	      open: {menu: false}
//	      focus: button
//
// # Usage
//
//	sc, err := config.LoadScenario("scenarios/menu.yaml")
//	if err != nil {
//	    errors.PrintError(err)
//	    os.Exit(1)
//	}
package config
