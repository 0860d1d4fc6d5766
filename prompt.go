package forge

// documentSchema is the response shape every code generation prompt asks for.
const documentSchema = `Return the response in JSON format with the following schema:
{
  "projectTitle": "",
  "explanation": "",
  "files": {
    "/path/to/file": {
      "code": ""
    },
    ...
  },
  "generatedFiles": []
}

Ensure the files field contains all the created files, and the generatedFiles
field contains the list of generated file paths.`

// CodeGenSystemPrompt is the system instruction for ModeCodeGen requests.
const CodeGenSystemPrompt = "You are an expert software developer. Generate clean, production-ready code following best practices. Always respond with valid JSON format when requested."

// ChatSystemPrompt is the system instruction for ModeChat and
// ModePromptEnhance requests.
const ChatSystemPrompt = "You are a helpful AI assistant specialized in software development and web technologies."

// ChatGuideline is appended to every chat prompt.
const ChatGuideline = `You are an AI Assistant and experienced in Web Development.
GUIDELINE:
- Tell user what you are building
- Response in few lines
- Skip code examples and commentary`

const componentAppCodeGenRules = `Generate a fully structured React project using Vite.
Ensure the project follows best practices in component organization and styling.

Project Requirements:
- Use React as the framework.
- Do not create an App.jsx file. Use App.js instead and modify it accordingly.
- Use Tailwind CSS for styling and create a modern, visually appealing UI.
- Organize components modularly into folders (/components, /pages, /styles).
- Include reusable components like buttons, cards, and forms where applicable.
- Use lucide-react icons if needed for UI enhancement.
- Do not create a src folder.
- Do not use backend or database related functionality.

` + documentSchema

const templatedSiteCodeGenRules = `Generate a complete WordPress theme structure with PHP files.

Project Requirements:
- Create a custom WordPress theme with proper file structure.
- Include index.php, style.css, functions.php, header.php, footer.php.
- Add page templates (page.php, single.php, archive.php) if needed.
- Use WordPress hooks and functions properly and enqueue styles and scripts.
- Use modern, mobile-first responsive CSS with flexbox or grid.
- Follow WordPress coding standards, SEO-friendly markup and accessibility.

` + documentSchema

const staticSiteCodeGenRules = `Generate a complete static website using HTML, CSS, and JavaScript.

Project Requirements:
- Include index.html as the main page.
- Add a separate style.css for styling and script.js for interactivity.
- Use modern HTML5 semantic elements.
- Implement responsive design with CSS Grid or Flexbox.
- Use Tailwind CSS via CDN plus custom CSS for unique components.
- Add vanilla JavaScript for form validation, smooth scrolling and a mobile menu.

` + documentSchema

const enhanceSuffix = `
Keep it less than 300 words.
Return only the enhanced prompt as plain text without any JSON formatting or additional explanations.`

const componentAppEnhanceRules = `You are a React development expert and prompt enhancement specialist. Improve the given user prompt for React applications by:
1. Making it more specific for React components and hooks
2. Including state management, props and modern functional patterns
3. Specifying UI/UX requirements and responsive design with Tailwind CSS
4. Keeping it focused on frontend React development only` + enhanceSuffix

const templatedSiteEnhanceRules = `You are a WordPress development expert and prompt enhancement specialist. Improve the given user prompt for WordPress themes by:
1. Making it more specific for WordPress development
2. Including custom post types, fields and hooks where relevant
3. Adding theme customization and admin panel features
4. Adding SEO and accessibility considerations` + enhanceSuffix

const staticSiteEnhanceRules = `You are a static web development expert and prompt enhancement specialist. Improve the given user prompt for HTML/CSS/JS websites by:
1. Making it more specific for static website development
2. Including semantic HTML5 structure and CSS Grid/Flexbox layout
3. Specifying vanilla JavaScript interactivity
4. Focusing on static websites without a backend` + enhanceSuffix

// CodeGenExample is a one-shot exchange sent as history with code
// generation requests so the model sees the expected document shape.
var CodeGenExample = []Message{
	UserMessage{Text: "create a to do app: Generate a Project in React. Create multiple components, organizing them in a folder structure.\n\n" + documentSchema},
	AssistantMessage{Text: "```json\n" + `{
  "projectTitle": "React To-Do App",
  "explanation": "A simple to-do application using React and Tailwind CSS. Components live in a dedicated components folder.",
  "files": {
    "/App.js": {
      "code": "import React from 'react';\nimport TodoList from './components/TodoList';\n\nfunction App() {\n  return (\n    <div className=\"min-h-screen bg-gray-100\">\n      <TodoList />\n    </div>\n  );\n}\n\nexport default App;"
    },
    "/components/TodoList.js": {
      "code": "import React, { useState } from 'react';\n\nfunction TodoList() {\n  const [todos, setTodos] = useState([]);\n  return <ul>{todos.map(t => <li key={t.id}>{t.text}</li>)}</ul>;\n}\n\nexport default TodoList;"
    }
  },
  "generatedFiles": ["/App.js", "/components/TodoList.js"]
}` + "\n```"},
}

var componentAppDefaults = []File{
	{Path: "/public/index.html", Code: `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>React App</title>
  <script src="https://cdn.tailwindcss.com"></script>
</head>
<body>
  <div id="root"></div>
</body>
</html>`},
	{Path: "/App.css", Code: "@tailwind base;\n@tailwind components;\n@tailwind utilities;"},
	{Path: "/tailwind.config.js", Code: `/** @type {import('tailwindcss').Config} */
module.exports = {
  content: ["./**/*.{js,jsx,ts,tsx}"],
  theme: {
    extend: {},
  },
  plugins: [],
}`},
}

var templatedSiteDefaults = []File{
	{Path: "/index.php", Code: `<?php
/**
 * Theme Name: Custom WordPress Theme
 * Description: AI Generated WordPress Theme
 * Version: 1.0
 */

get_header(); ?>

<main id="main" class="site-main">
    <?php while (have_posts()) : the_post(); ?>
        <h1 class="entry-title"><?php the_title(); ?></h1>
        <div class="entry-content"><?php the_content(); ?></div>
    <?php endwhile; ?>
</main>

<?php get_footer(); ?>`},
	{Path: "/style.css", Code: `/*
Theme Name: Custom WordPress Theme
Description: AI Generated WordPress Theme
Version: 1.0
*/

body {
    font-family: Arial, sans-serif;
    margin: 0;
    line-height: 1.6;
}`},
	{Path: "/header.php", Code: `<!DOCTYPE html>
<html <?php language_attributes(); ?>>
<head>
    <meta charset="<?php bloginfo('charset'); ?>">
    <?php wp_head(); ?>
</head>
<body <?php body_class(); ?>>`},
	{Path: "/footer.php", Code: `    <?php wp_footer(); ?>
</body>
</html>`},
	{Path: "/functions.php", Code: `<?php
function theme_setup() {
    add_theme_support('title-tag');
    add_theme_support('post-thumbnails');
}
add_action('after_setup_theme', 'theme_setup');`},
}

var staticSiteDefaults = []File{
	{Path: "/index.html", Code: `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Static Site</title>
  <script src="https://cdn.tailwindcss.com"></script>
  <link rel="stylesheet" href="style.css">
</head>
<body>
  <script src="script.js"></script>
</body>
</html>`},
	{Path: "/style.css", Code: "body {\n  margin: 0;\n  font-family: system-ui, sans-serif;\n}"},
	{Path: "/script.js", Code: "document.addEventListener('DOMContentLoaded', () => {});"},
}
