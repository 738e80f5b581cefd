// Package render builds the side-by-side comparison page.
//
// A Renderer fetches the results manifest, sorts the test names and appends
// one comparison block per name to a container node:
//
//	<div class="comparison" id="NAME">
//	  <p>NAME</p>
//	  <img src="./images/NAME-orig.png" class="orig">
//	  <img src="./images/NAME-spng.png" class="spng">
//	</div>
//
// The container is passed in explicitly. Page locates it in a host document
// by selector (".results" by default).
package render
