package rod

// extractScript collects the raw records for every candidate interactive
// node. Zero-area filtering and classification happen in the mapper, not
// here.
const extractScript = `() => {
	const selector = "button, input, textarea, select, a[href], [role='button'], [tabindex], [onclick]";
	const out = [];
	for (const el of document.querySelectorAll(selector)) {
		const rect = el.getBoundingClientRect();
		out.push({
			tag: el.tagName.toLowerCase(),
			text: (el.innerText || "").trim().slice(0, 300),
			placeholder: el.getAttribute("placeholder") || "",
			value: typeof el.value === "string" ? el.value : "",
			href: el.getAttribute("href") || "",
			id: el.id || "",
			classes: Array.from(el.classList),
			role: el.getAttribute("role") || "",
			ariaLabel: el.getAttribute("aria-label") || "",
			testId: el.getAttribute("data-testid") || el.getAttribute("data-test-id") || "",
			name: el.getAttribute("name") || "",
			type: el.getAttribute("type") || "",
			hasOnClick: el.hasAttribute("onclick"),
			x: rect.x,
			y: rect.y,
			width: rect.width,
			height: rect.height
		});
	}
	return out;
}`
